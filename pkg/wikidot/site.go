package wikidot

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	siteIDPattern       = regexp.MustCompile(`WIKIREQUEST\.info\.siteId = (\d+);`)
	siteUnixNamePattern = regexp.MustCompile(`WIKIREQUEST\.info\.siteUnixName = "([a-zA-Z0-9\-]+)";`)
)

// Site is a Wikidot site reached through an authenticated session.
type Site struct {
	ID       int
	UnixName string
	Title    string

	session *Session
}

// URL returns the site's base URL.
func (s *Site) URL() string {
	return s.session.client.siteURL(s.UnixName)
}

// Site looks a site up by unix name.
func (s *Session) Site(ctx context.Context, unixName string) (*Site, error) {
	unixName = ToUnix(unixName)
	if unixName == "" {
		return nil, fmt.Errorf("%w: empty site name", ErrSiteNotFound)
	}

	body, status, err := s.get(ctx, s.client.siteURL(unixName)+"/")
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrSiteNotFound, unixName)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch site %s, status code: %d", unixName, status)
	}

	m := siteIDPattern.FindSubmatch(body)
	if m == nil {
		return nil, fmt.Errorf("%w: %s has no site id", ErrSiteNotFound, unixName)
	}
	id, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid site id %q: %w", m[1], err)
	}

	site := &Site{ID: id, UnixName: unixName, session: s}
	if m := siteUnixNamePattern.FindSubmatch(body); m != nil {
		site.UnixName = string(m[1])
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	site.Title = strings.TrimSpace(doc.Find("title").First().Text())

	return site, nil
}
