package parser

import (
	"strings"

	"github.com/dtnitsch/reserve-fetch/models"
)

type Parser struct{}

// Parse turns raw page text into a key/value mapping.
// Each line is split on its first colon; lines without one are skipped.
// A later line with the same key overwrites an earlier one.
func (p *Parser) Parse(raw string) models.Content {
	return Parse(raw)
}

// Parse is the package-level form of (*Parser).Parse.
func Parse(raw string) models.Content {
	content := models.Content{}
	if raw == "" {
		return content
	}

	for _, line := range strings.Split(raw, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		content[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}

	return content
}

// unquote strips exactly one pair of surrounding single quotes.
func unquote(value string) string {
	if len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'' {
		return value[1 : len(value)-1]
	}
	return value
}
