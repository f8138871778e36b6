package db

import (
	"fmt"
	"io"
	"strings"

	dbpkg "github.com/dtnitsch/reserve-fetch/pkg/db"
	"github.com/urfave/cli/v2"
)

// HistoryAction lists recent fetch outcomes.
func HistoryAction(c *cli.Context) error {
	database, cfg, err := openHistory(c)
	if err != nil {
		return err
	}
	defer database.Close()

	var records []dbpkg.FetchRecord
	if page := c.String("page"); page != "" {
		rec, err := database.LastSuccess(cfg.Site, page)
		if err != nil {
			return fmt.Errorf("failed to look up page: %w", err)
		}
		if rec != nil {
			records = append(records, *rec)
		}
	} else {
		records, err = database.ListFetches(c.Int("limit"))
		if err != nil {
			return fmt.Errorf("failed to list fetches: %w", err)
		}
	}

	printHistory(c.App.Writer, records)
	return nil
}

func printHistory(w io.Writer, records []dbpkg.FetchRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No fetches found")
		return
	}

	fmt.Fprintf(w, "%-6s %-20s %-16s %-30s %-14s %-6s %-8s %s\n",
		"ID", "Fetched", "Site", "Page", "Status", "Keys", "Size", "Error")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for _, r := range records {
		fmt.Fprintf(w, "%-6d %-20s %-16s %-30s %-14s %-6d %-8d %s\n",
			r.FetchID,
			r.FetchedAt.Local().Format("2006-01-02 15:04:05"),
			r.Site,
			r.Fullname,
			r.Status,
			r.KeyCount,
			r.SizeBytes,
			r.ErrorMessage.String,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d fetches\n", len(records))
}
