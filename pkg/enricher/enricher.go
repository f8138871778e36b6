// Package enricher adds human-readable timestamps next to epoch-second fields.
package enricher

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/dtnitsch/reserve-fetch/models"
)

const (
	// ReadableSuffix is appended to a field name to form the derived key.
	ReadableSuffix = "_readable"
	// ReadableLayout is YYYY-MM-DD HH:MM:SS.
	ReadableLayout = "2006-01-02 15:04:05"
)

// TimeFields lists the keys whose values are treated as Unix seconds.
var TimeFields = []string{"date-from", "date-to", "created_at", "updated_at"}

// Enrich returns a copy of data with a <field>_readable entry, in local time,
// for every known time field holding only decimal digits.
func Enrich(data models.Content) models.Content {
	return EnrichIn(data, time.Local)
}

// EnrichIn is Enrich against an explicit location.
// Signed, non-numeric and out-of-range values are skipped, never reported.
func EnrichIn(data models.Content, loc *time.Location) models.Content {
	result := make(models.Content, len(data)+len(TimeFields))
	for k, v := range data {
		result[k] = v
	}

	for _, field := range TimeFields {
		value, ok := data[field]
		if !ok {
			continue
		}
		value, ok = asciiDigits(value)
		if !ok {
			continue
		}
		if readable, ok := FormatEpoch(value, loc); ok {
			result[field+ReadableSuffix] = readable
		}
	}

	return result
}

// FormatEpoch renders an epoch-second string. It reports false when the value
// does not fit in int64 or falls outside years 1 through 9999.
func FormatEpoch(value string, loc *time.Location) (string, bool) {
	secs, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return "", false
	}

	t := time.Unix(secs, 0).In(loc)
	if y := t.Year(); y < 1 || y > 9999 {
		return "", false
	}
	return t.Format(ReadableLayout), true
}

// asciiDigits folds a string of Unicode decimal digits (full-width,
// Arabic-Indic, ...) to ASCII. It reports false for empty input or any
// rune outside category Nd.
func asciiDigits(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return "", false
		}
		sb.WriteByte(byte('0' + digitValue(r)))
	}
	return sb.String(), true
}

// digitValue returns the value of an Nd rune. Nd runes come in contiguous
// runs of ten starting at a zero, so the offset from the run start mod 10
// is the value.
func digitValue(r rune) int {
	if r >= '0' && r <= '9' {
		return int(r - '0')
	}
	start := r
	for unicode.IsDigit(start - 1) {
		start--
	}
	return int(r-start) % 10
}
