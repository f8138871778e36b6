package db

import (
	"bytes"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	dbpkg "github.com/dtnitsch/reserve-fetch/pkg/db"
	"github.com/urfave/cli/v2"
)

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, []dbpkg.FetchRecord{
		{FetchID: 2, Site: "rpcsandboxcn", Fullname: "reserve:rpc-055", Status: "ok", KeyCount: 3, SizeBytes: 1234, FetchedAt: time.Now()},
		{FetchID: 1, Site: "rpcsandboxcn", Fullname: "reserve:gone", Status: "not_found",
			ErrorMessage: sql.NullString{String: "page not found", Valid: true}, FetchedAt: time.Now()},
	})

	out := buf.String()
	for _, want := range []string{"reserve:rpc-055", "not_found", "page not found", "Total: 2 fetches"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, nil)

	if got := strings.TrimSpace(buf.String()); got != "No fetches found" {
		t.Errorf("output = %q, want %q", got, "No fetches found")
	}
}

func seedHistory(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	database, err := dbpkg.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer database.Close()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	records := []dbpkg.FetchRecord{
		{Site: "rpcsandboxcn", PageName: "rpc-055", Fullname: "reserve:rpc-055", Status: "ok", KeyCount: 3, FetchedAt: base},
		{Site: "rpcsandboxcn", PageName: "rpc-055", Fullname: "reserve:rpc-055", Status: "not_found", FetchedAt: base.Add(time.Minute)},
		{Site: "rpcsandboxcn", PageName: "rpc-101", Fullname: "reserve:rpc-101", Status: "ok", KeyCount: 7, FetchedAt: base.Add(2 * time.Minute)},
	}
	for _, rec := range records {
		if _, err := database.RecordFetch(rec); err != nil {
			t.Fatalf("RecordFetch() error = %v", err)
		}
	}
	return path
}

func runHistory(t *testing.T, args ...string) string {
	t.Helper()
	var stdout bytes.Buffer
	app := &cli.App{
		Name:   "reserve-fetch",
		Writer: &stdout,
		Commands: []*cli.Command{{
			Name: "history",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "config"},
				&cli.StringFlag{Name: "db"},
				&cli.StringFlag{Name: "site"},
				&cli.IntFlag{Name: "limit", Value: 20},
				&cli.StringFlag{Name: "page"},
			},
			Action: HistoryAction,
		}},
	}
	if err := app.Run(append([]string{"reserve-fetch", "history"}, args...)); err != nil {
		t.Fatalf("history %v: error = %v", args, err)
	}
	return stdout.String()
}

func TestHistoryAction_Limit(t *testing.T) {
	path := seedHistory(t)

	out := runHistory(t, "--db", path, "--limit", "2")
	if !strings.Contains(out, "Total: 2 fetches") {
		t.Errorf("expected 2 rows:\n%s", out)
	}
	if !strings.Contains(out, "reserve:rpc-101") {
		t.Errorf("newest fetch missing:\n%s", out)
	}

	out = runHistory(t, "--db", path)
	if !strings.Contains(out, "Total: 3 fetches") {
		t.Errorf("expected 3 rows:\n%s", out)
	}
}

func TestHistoryAction_Page(t *testing.T) {
	path := seedHistory(t)

	out := runHistory(t, "--db", path, "--page", "rpc-055")
	if !strings.Contains(out, "Total: 1 fetches") {
		t.Errorf("expected one row:\n%s", out)
	}
	if strings.Contains(out, "not_found") || strings.Contains(out, "rpc-101") {
		t.Errorf("only the last successful fetch of rpc-055 should be listed:\n%s", out)
	}

	out = runHistory(t, "--db", path, "--site", "other-site", "--page", "rpc-055")
	if !strings.Contains(out, "No fetches found") {
		t.Errorf("expected no rows for another site:\n%s", out)
	}
}
