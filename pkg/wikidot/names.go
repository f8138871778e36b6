package wikidot

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	invalidUnixChars = regexp.MustCompile(`[^a-z0-9\-:_]`)
	repeatedDashes   = regexp.MustCompile(`-{2,}`)
	repeatedColons   = regexp.MustCompile(`:{2,}`)
)

// ToUnix converts a page or site name to the form Wikidot uses in URLs:
// accents folded, lowercase, anything outside [a-z0-9-:_] turned into dashes.
// An underscore survives only at the start of a name segment.
func ToUnix(name string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, name)
	if err != nil {
		folded = name
	}

	s := invalidUnixChars.ReplaceAllString(strings.ToLower(folded), "-")

	b := []byte(s)
	for i := range b {
		if b[i] == '_' && i > 0 && b[i-1] != ':' {
			b[i] = '-'
		}
	}
	s = string(b)

	s = strings.Trim(s, "-")
	s = repeatedDashes.ReplaceAllString(s, "-")
	s = repeatedColons.ReplaceAllString(s, ":")
	for _, r := range [][2]string{{":-", ":"}, {"-:", ":"}, {"_-", "_"}, {"-_", "_"}} {
		s = strings.ReplaceAll(s, r[0], r[1])
	}
	return strings.Trim(s, ":")
}
