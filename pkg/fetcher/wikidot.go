package fetcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtnitsch/reserve-fetch/models"
	"github.com/dtnitsch/reserve-fetch/pkg/wikidot"
)

// NewWikidotClient adapts a wikidot.Client to SiteClient.
func NewWikidotClient(c *wikidot.Client) SiteClient {
	return wikidotClient{c: c}
}

type wikidotClient struct {
	c *wikidot.Client
}

func (w wikidotClient) Login(ctx context.Context, username, password string) (Session, error) {
	sess, err := w.c.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return wikidotSession{s: sess}, nil
}

type wikidotSession struct {
	s *wikidot.Session
}

func (w wikidotSession) Site(ctx context.Context, name string) (Site, error) {
	site, err := w.s.Site(ctx, name)
	if err != nil {
		return nil, err
	}
	return wikidotSite{s: site}, nil
}

func (w wikidotSession) Close() error {
	return w.s.Close()
}

type wikidotSite struct {
	s *wikidot.Site
}

func (w wikidotSite) Page(ctx context.Context, fullname string) (*models.Page, error) {
	page, err := w.s.Page(ctx, fullname)
	if errors.Is(err, wikidot.ErrPageNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrPageNotFound, err)
	}
	return page, err
}
