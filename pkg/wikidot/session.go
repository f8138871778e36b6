package wikidot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	ajaxPath     = "/ajax-module-connector.php"
	tokenCookie  = "wikidot_token7"
	tokenValue   = "123456"
	logoutWindow = 10 * time.Second
)

// Session is an authenticated connection. It is not safe for concurrent use.
type Session struct {
	client   *Client
	username string
	id       string
	closed   bool
}

type moduleResponse struct {
	Status  string `json:"status"`
	Body    string `json:"body"`
	Message string `json:"message"`
}

// module calls the ajax module connector of a site and returns the rendered body.
func (s *Session) module(ctx context.Context, unixName string, params url.Values) (string, error) {
	if s.closed {
		return "", ErrClosed
	}

	form := url.Values{}
	for k, v := range params {
		form[k] = v
	}
	form.Set(tokenCookie, tokenValue)

	siteURL := s.client.siteURL(unixName)
	req, err := s.client.newFormRequest(ctx, siteURL+ajaxPath, form)
	if err != nil {
		return "", err
	}
	req.Header.Set("Referer", siteURL)
	req.AddCookie(&http.Cookie{Name: tokenCookie, Value: tokenValue})
	s.authorize(req)

	resp, err := s.client.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make module request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("module %s failed, status code: %d", params.Get("moduleName"), resp.StatusCode)
	}

	var mr moduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return "", fmt.Errorf("failed to decode module response: %w", err)
	}
	if mr.Status != "ok" {
		return "", &StatusError{Module: params.Get("moduleName"), Status: mr.Status, Message: mr.Message}
	}
	return mr.Body, nil
}

// get fetches a site URL and returns the body along with the status code.
func (s *Session) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	if s.closed {
		return nil, 0, ErrClosed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", s.client.userAgent)
	s.authorize(req)

	resp, err := s.client.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// authorize adds the session cookie when the jar would not send it itself,
// e.g. when the login host set a host-only cookie.
func (s *Session) authorize(req *http.Request) {
	for _, ck := range s.client.http.Jar.Cookies(req.URL) {
		if ck.Name == sessionCookie {
			return
		}
	}
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: s.id})
}

// Close logs the session out and drops idle connections. Calling it again is a no-op.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), logoutWindow)
	defer cancel()

	_, err := s.module(ctx, wwwSite, url.Values{
		"action":     {"Login2Action"},
		"event":      {"logout"},
		"moduleName": {"Empty"},
	})
	s.closed = true
	s.client.http.CloseIdleConnections()
	if err != nil {
		return fmt.Errorf("failed to log out %s: %w", s.username, err)
	}
	return nil
}
