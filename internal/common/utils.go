package common

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidPageName is returned when a page argument is empty after cleanup.
var ErrInvalidPageName = errors.New("invalid page name")

var markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\((.+)\)$`)

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// SanitizePageName cleans up a page argument pasted from a browser or chat:
// surrounding whitespace and punctuation, markdown links, full page URLs and a
// repeated namespace prefix are removed. "reserve:rpc-055" and
// "https://site.wikidot.com/reserve:rpc-055" both become "rpc-055".
func SanitizePageName(raw, namespace string) (string, error) {
	cleaned := strings.TrimSpace(raw)

	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	for _, char := range []string{",", ".", ")", "}", "]", "\"", "'", ">", ";"} {
		cleaned = strings.TrimSuffix(cleaned, char)
	}
	for _, char := range []string{"(", "[", "<", "\"", "'"} {
		cleaned = strings.TrimPrefix(cleaned, char)
	}
	cleaned = strings.TrimSpace(cleaned)

	if strings.HasPrefix(cleaned, "http://") || strings.HasPrefix(cleaned, "https://") {
		u, err := url.Parse(cleaned)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidPageName, raw)
		}
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		cleaned = segments[0]
	}

	if namespace != "" {
		prefix := namespace + ":"
		if len(cleaned) >= len(prefix) && strings.EqualFold(cleaned[:len(prefix)], prefix) {
			cleaned = cleaned[len(prefix):]
		}
	}

	if cleaned == "" || strings.Contains(cleaned, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPageName, raw)
	}
	return cleaned, nil
}
