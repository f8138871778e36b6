package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dtnitsch/reserve-fetch/internal/db"
	"github.com/dtnitsch/reserve-fetch/internal/fetch"
	"github.com/dtnitsch/reserve-fetch/pkg/help"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	common := []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file", EnvVars: []string{"RESERVE_CONFIG"}},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
		&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		&cli.StringFlag{Name: "log-file", Usage: "also write logs to this rotating file"},
	}
	output := []cli.Flag{
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "output format: json or yaml"},
		&cli.IntFlag{Name: "indent", Usage: "spaces per indentation level (0 for compact JSON)"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write to this file instead of stdout"},
	}
	site := &cli.StringFlag{Name: "site", Usage: "site unix name", EnvVars: []string{"RESERVE_SITE"}}
	dbFlag := &cli.StringFlag{Name: "db", Usage: "history database path (default: next to the binary)"}

	return &cli.App{
		Name:   "reserve-fetch",
		Usage:  "Fetch reserve pages from a Wikidot site as structured JSON",
		Writer: os.Stdout,
		Reader: os.Stdin,
		Commands: []*cli.Command{
			{
				Name:      "fetch",
				Usage:     "Log in, fetch one page and print it as JSON",
				ArgsUsage: "PAGE",
				Flags: flags(common, output, []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, EnvVars: []string{"RESERVE_USERNAME"}},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, EnvVars: []string{"RESERVE_PASSWORD"}},
					site,
					&cli.StringFlag{Name: "namespace", Usage: "page category prefix"},
					&cli.StringFlag{Name: "domain", Usage: "wiki farm domain"},
					&cli.IntFlag{Name: "timeout", Usage: "HTTP timeout in seconds"},
					dbFlag,
					&cli.BoolFlag{Name: "no-history", Usage: "do not record the outcome"},
				}),
				Action: fetch.FetchAction,
			},
			{
				Name:      "parse",
				Usage:     "Parse key: value text from a file or stdin",
				ArgsUsage: "[FILE]",
				Flags:     flags(common, output),
				Action:    fetch.ParseAction,
			},
			{
				Name:  "history",
				Usage: "Show recent fetch outcomes",
				Flags: flags(common, []cli.Flag{
					dbFlag,
					site,
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "number of rows"},
					&cli.StringFlag{Name: "page", Usage: "show the last successful fetch of this page"},
				}),
				Action: db.HistoryAction,
			},
			{
				Name:  "quickstart",
				Usage: "Print usage examples and the config layout",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprint(c.App.Writer, help.QuickstartYAML)
					return err
				},
			},
		},
	}
}

func flags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
