// Package fetcher logs into a site, fetches one page and turns its key/value
// text into an enriched document.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dtnitsch/reserve-fetch/models"
	"github.com/dtnitsch/reserve-fetch/pkg/enricher"
	"github.com/dtnitsch/reserve-fetch/pkg/parser"
)

// SiteClient authenticates against the content site.
type SiteClient interface {
	Login(ctx context.Context, username, password string) (Session, error)
}

// Session is an authenticated connection that must be closed.
type Session interface {
	Site(ctx context.Context, name string) (Site, error)
	Close() error
}

// Site retrieves pages by their qualified name.
type Site interface {
	Page(ctx context.Context, fullname string) (*models.Page, error)
}

type Options struct {
	Username  string
	Password  string
	Site      string
	Namespace string

	// Location is used for the readable timestamps. Nil means time.Local.
	Location *time.Location
}

// OptionsFromConfig copies the fetch-related settings out of cfg.
func OptionsFromConfig(cfg *models.Config) Options {
	return Options{
		Username:  cfg.Username,
		Password:  cfg.Password,
		Site:      cfg.Site,
		Namespace: cfg.Namespace,
	}
}

// Fetcher holds at most one authenticated session. It is not safe for concurrent use.
type Fetcher struct {
	client SiteClient
	opts   Options
	logger *slog.Logger

	session Session
	site    Site
}

func New(client SiteClient, opts Options, logger *slog.Logger) *Fetcher {
	if opts.Namespace == "" {
		opts.Namespace = models.DefaultNamespace
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fetcher{client: client, opts: opts, logger: logger}
}

// Run opens a fetcher, hands it to fn and closes it on every exit path,
// panics included. A failed login is only logged here; fetches retry it.
func Run(ctx context.Context, client SiteClient, opts Options, logger *slog.Logger, fn func(*Fetcher) error) error {
	f := New(client, opts, logger)
	defer func() {
		if err := f.Close(); err != nil {
			f.logger.Warn("Failed to close session", "error", err)
		}
	}()

	_ = f.Open(ctx)
	return fn(f)
}

// Open logs in and resolves the configured site. It is a no-op when a session exists.
func (f *Fetcher) Open(ctx context.Context) error {
	if f.site != nil {
		return nil
	}

	sess, err := f.client.Login(ctx, f.opts.Username, f.opts.Password)
	if err != nil {
		f.logger.Error("Login failed", "site", f.opts.Site, "username", f.opts.Username, "error", err)
		return fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}

	site, err := sess.Site(ctx, f.opts.Site)
	if err != nil {
		_ = sess.Close()
		f.logger.Error("Login failed", "site", f.opts.Site, "username", f.opts.Username, "error", err)
		return fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}

	f.session, f.site = sess, site
	f.logger.Info("Logged in", "site", f.opts.Site, "username", f.opts.Username)
	return nil
}

// Close releases the session, if any.
func (f *Fetcher) Close() error {
	if f.session == nil {
		return nil
	}
	err := f.session.Close()
	f.session, f.site = nil, nil
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	return nil
}

// QualifiedName prefixes a page name with the configured namespace.
func (f *Fetcher) QualifiedName(pageName string) string {
	return f.opts.Namespace + ":" + pageName
}

// FetchPage returns the enriched document for a page or a classified error.
func (f *Fetcher) FetchPage(ctx context.Context, pageName string) (doc models.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("%w: %v", ErrUnexpected, r)
		}
	}()

	if f.site == nil {
		if err := f.Open(ctx); err != nil {
			return nil, err
		}
	}

	qualified := f.QualifiedName(pageName)
	f.logger.Info("Fetching page", "page", qualified)

	page, err := f.site.Page(ctx, qualified)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page %s: %w", qualified, err)
	}
	if page == nil {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, qualified)
	}
	if page.Source == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSource, qualified)
	}
	if page.Source.WikiText == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyContent, qualified)
	}

	return BuildDocument(page, f.opts.Location), nil
}

// Fetch is FetchPage with every failure logged and collapsed to nil.
func (f *Fetcher) Fetch(ctx context.Context, pageName string) models.Document {
	doc, err := f.FetchPage(ctx, pageName)
	if err != nil {
		f.logger.Error("Failed to fetch page", "page", pageName, "outcome", Classify(err), "error", err)
		return nil
	}
	f.logger.Info("Fetched and parsed page", "page", pageName, "keys", len(doc))
	return doc
}

// FetchJSON fetches a page and encodes it as JSON with indent spaces per level.
// The second result is false on any failure.
func (f *Fetcher) FetchJSON(ctx context.Context, pageName string, indent int) (string, bool) {
	doc := f.Fetch(ctx, pageName)
	if doc == nil {
		return "", false
	}

	data, err := Encode(doc, models.FormatJSON, indent)
	if err != nil {
		f.logger.Error("Failed to encode page", "page", pageName, "error", err)
		return "", false
	}
	return string(data), true
}

// BuildDocument parses the page source, attaches the metadata under
// models.PageInfoKey and adds readable timestamps. Page metadata replaces a
// content line that uses the reserved key.
func BuildDocument(page *models.Page, loc *time.Location) models.Document {
	var raw string
	if page.Source != nil {
		raw = page.Source.WikiText
	}

	content := enricher.EnrichIn(parser.Parse(raw), loc)

	doc := make(models.Document, len(content)+1)
	for k, v := range content {
		doc[k] = v
	}
	doc[models.PageInfoKey] = page.Info()
	return doc
}
