package fetch

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dtnitsch/reserve-fetch/internal/common"
	"github.com/dtnitsch/reserve-fetch/models"
	"github.com/dtnitsch/reserve-fetch/pkg/db"
	"github.com/dtnitsch/reserve-fetch/pkg/enricher"
	"github.com/dtnitsch/reserve-fetch/pkg/fetcher"
	"github.com/dtnitsch/reserve-fetch/pkg/parser"
	"github.com/dtnitsch/reserve-fetch/pkg/storage"
	"github.com/dtnitsch/reserve-fetch/pkg/wikidot"
	"github.com/urfave/cli/v2"
)

// Recorder stores fetch outcomes. *db.DB satisfies it.
type Recorder interface {
	RecordFetch(rec db.FetchRecord) (int64, error)
}

// newSiteClient builds the site client for FetchAction. Tests replace it.
var newSiteClient = func(cfg *models.Config) (fetcher.SiteClient, error) {
	client, err := wikidot.NewClient(wikidot.Options{
		Domain:    cfg.Domain,
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return fetcher.NewWikidotClient(client), nil
}

func FetchAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	logger := common.NewLogger(cfg.Log, c.Bool("quiet"))

	if c.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one page name is required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  reserve-fetch fetch rpc-055`)
		fmt.Fprintln(os.Stderr, `  reserve-fetch fetch --format yaml --output out/rpc-055.yaml rpc-055`)
		return cli.Exit("", 1)
	}
	if err := cfg.RequireCredentials(); err != nil {
		logger.Error("missing credentials", "error", err)
		return cli.Exit(err.Error()+" (use --username/--password or RESERVE_USERNAME/RESERVE_PASSWORD)", 2)
	}

	pageName, err := common.SanitizePageName(c.Args().First(), cfg.Namespace)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	client, err := newSiteClient(cfg)
	if err != nil {
		logger.Error("failed to create site client", "error", err)
		return cli.Exit(err.Error(), 2)
	}

	var recorder Recorder
	if cfg.History.Enabled {
		database, err := db.Open(cfg.History.Path)
		if err != nil {
			// History is best effort; the fetch itself still runs.
			logger.Warn("failed to open history database", "error", err)
		} else {
			defer database.Close()
			recorder = database
		}
	}

	return Run(c.Context, logger, cfg, client, recorder, pageName, c.App.Writer)
}

// Run fetches one page, writes the encoded document to cfg.Output.Path or
// stdout, and records the outcome when recorder is non-nil.
func Run(ctx context.Context, logger *slog.Logger, cfg *models.Config, client fetcher.SiteClient, recorder Recorder, pageName string, stdout io.Writer) error {
	format, err := cfg.Format()
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	var (
		doc      models.Document
		out      []byte
		fetchErr error
		fullname string
	)

	err = fetcher.Run(ctx, client, fetcher.OptionsFromConfig(cfg), logger, func(f *fetcher.Fetcher) error {
		fullname = f.QualifiedName(pageName)
		doc, fetchErr = f.FetchPage(ctx, pageName)
		if fetchErr != nil {
			return nil
		}
		out, fetchErr = fetcher.Encode(doc, format, cfg.Output.Indent)
		return nil
	})
	if err != nil {
		return err
	}

	outcome := fetcher.Classify(fetchErr)
	if recorder != nil {
		rec := db.FetchRecord{
			Site:     cfg.Site,
			PageName: pageName,
			Fullname: fullname,
			Status:   string(outcome),
		}
		if fetchErr != nil {
			rec.ErrorMessage = sql.NullString{String: fetchErr.Error(), Valid: true}
		} else {
			rec.ContentHash = sql.NullString{String: common.ContentHash(out), Valid: true}
			rec.KeyCount = len(doc)
			if info, ok := doc[models.PageInfoKey].(models.PageInfo); ok {
				rec.SizeBytes = info.Size
			}
		}
		if _, err := recorder.RecordFetch(rec); err != nil {
			logger.Warn("failed to record fetch", "page", pageName, "error", err)
		}
	}

	if fetchErr != nil {
		logger.Error("Failed to fetch page", "page", pageName, "outcome", outcome, "error", fetchErr)
		return cli.Exit(fmt.Sprintf("no result for %s (%s)", pageName, outcome), 1)
	}
	logger.Info("Fetched and parsed page", "page", fullname, "keys", len(doc), "bytes", len(out))

	return writeOutput(logger, cfg.Output.Path, out, stdout)
}

// ParseAction runs the parser and timestamp enricher over a local file or stdin.
func ParseAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	logger := common.NewLogger(cfg.Log, c.Bool("quiet"))

	format, err := cfg.Format()
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	s := &storage.Storage{}
	var raw []byte
	if path := c.Args().First(); path != "" && path != "-" {
		raw, err = s.ReadFile(path)
	} else {
		raw, err = s.ReadFrom(c.App.Reader)
	}
	if err != nil {
		logger.Error("failed to read input", "error", err)
		return cli.Exit(err.Error(), 1)
	}

	content := enricher.Enrich(parser.Parse(string(raw)))
	out, err := fetcher.Encode(content, format, cfg.Output.Indent)
	if err != nil {
		logger.Error("failed to encode content", "error", err)
		return cli.Exit(err.Error(), 1)
	}
	logger.Info("Parsed content", "keys", len(content), "bytes", len(raw))

	return writeOutput(logger, cfg.Output.Path, out, c.App.Writer)
}

func writeOutput(logger *slog.Logger, path string, out []byte, stdout io.Writer) error {
	if path == "" {
		_, err := fmt.Fprintln(stdout, strings.TrimRight(string(out), "\n"))
		return err
	}

	s := &storage.Storage{}
	if s.HasFile(path) {
		logger.Warn("Overwriting existing output file", "path", path)
	}
	if err := s.SaveFile(path, out); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Fprintf(os.Stderr, "Saved to: %s\n", path)
	return nil
}
