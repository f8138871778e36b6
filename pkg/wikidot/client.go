// Package wikidot is a small client for Wikidot sites: login, site lookup,
// page metadata and page source.
package wikidot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

const (
	DefaultScheme    = "https"
	DefaultDomain    = "wikidot.com"
	DefaultUserAgent = "reserve-fetch/1.0"

	loginPath      = "/default--flow/login__LoginPopupScreen"
	loginMismatch  = "The login and password do not match"
	sessionCookie  = "WIKIDOT_SESSION_ID"
	wwwSite        = "www"
	defaultTimeout = 30 * time.Second
)

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	Scheme    string
	Domain    string
	UserAgent string
	Timeout   time.Duration

	// HTTPClient is copied; a cookie jar is installed on the copy when it has none.
	HTTPClient *http.Client
}

type Client struct {
	http      *http.Client
	scheme    string
	domain    string
	userAgent string
}

func NewClient(opts Options) (*Client, error) {
	var hc http.Client
	if opts.HTTPClient != nil {
		hc = *opts.HTTPClient
	}
	if hc.Timeout == 0 {
		hc.Timeout = opts.Timeout
		if hc.Timeout == 0 {
			hc.Timeout = defaultTimeout
		}
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		hc.Jar = jar
	}

	c := &Client{
		http:      &hc,
		scheme:    opts.Scheme,
		domain:    opts.Domain,
		userAgent: opts.UserAgent,
	}
	if c.scheme == "" {
		c.scheme = DefaultScheme
	}
	if c.domain == "" {
		c.domain = DefaultDomain
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	return c, nil
}

func (c *Client) siteURL(unixName string) string {
	return fmt.Sprintf("%s://%s.%s", c.scheme, unixName, c.domain)
}

// Login authenticates against the central login form and returns a session
// bound to this client's cookie jar.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	form := url.Values{
		"login":    {username},
		"password": {password},
		"action":   {"Login2Action"},
		"event":    {"login"},
	}

	req, err := c.newFormRequest(ctx, c.siteURL(wwwSite)+loginPath, form)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make login request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read login response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrLoginFailed, resp.StatusCode)
	}
	if bytes.Contains(body, []byte(loginMismatch)) {
		return nil, fmt.Errorf("%w: invalid username or password", ErrLoginFailed)
	}

	var sessionID string
	for _, ck := range resp.Cookies() {
		if ck.Name == sessionCookie && ck.Value != "" {
			sessionID = ck.Value
		}
	}
	if sessionID == "" {
		return nil, fmt.Errorf("%w: no session cookie in response", ErrLoginFailed)
	}

	return &Session{client: c, username: username, id: sessionID}, nil
}

func (c *Client) newFormRequest(ctx context.Context, rawURL string, form url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}
