package fetcher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dtnitsch/reserve-fetch/models"
	"gopkg.in/yaml.v3"
)

// Encode renders v as JSON or YAML. JSON keeps non-ASCII and HTML characters
// literal; indent <= 0 produces compact JSON. YAML rejects indents the
// encoder would silently replace with its default.
func Encode(v any, format models.OutputFormat, indent int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case models.FormatYAML:
		if err := format.CheckIndent(indent); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncode, err)
		}
		enc := yaml.NewEncoder(&buf)
		if indent > 0 {
			enc.SetIndent(indent)
		}
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncode, err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncode, err)
		}
		return buf.Bytes(), nil

	case models.FormatJSON, "":
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if indent > 0 {
			enc.SetIndent("", strings.Repeat(" ", indent))
		}
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncode, err)
		}
		return bytes.TrimRight(buf.Bytes(), "\n"), nil
	}

	return nil, fmt.Errorf("%w: unsupported format %q", ErrEncode, format)
}
