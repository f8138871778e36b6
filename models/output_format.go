package models

import (
	"fmt"
	"strings"
)

// OutputFormat selects the encoder used for fetched documents.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// The YAML encoder only honours indents in this range; 0 keeps its default of 2.
const (
	YAMLMinIndent = 2
	YAMLMaxIndent = 9
)

// CheckIndent reports whether indent can be rendered in format f.
func (f OutputFormat) CheckIndent(indent int) error {
	if f == FormatYAML && indent != 0 && (indent < YAMLMinIndent || indent > YAMLMaxIndent) {
		return fmt.Errorf("yaml indent must be 0 or between %d and %d, got %d", YAMLMinIndent, YAMLMaxIndent, indent)
	}
	return nil
}

// ParseOutputFormat resolves a user-supplied format name. Empty defaults to JSON.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q (want json or yaml)", s)
}
