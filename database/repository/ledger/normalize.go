package ledger

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespace = regexp.MustCompile(`\s+`)

// stripDiacritics decomposes to NFKD and drops combining marks, so "José"
// becomes "Jose".
var stripDiacritics = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// NormalizeName collapses the casing/accent/whitespace variants the schedule
// grid renders for the same practitioner into one stable ledger key segment:
// lowercase, diacritics removed, whitespace runs replaced by underscores.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if ascii, _, err := transform.String(stripDiacritics, name); err == nil {
		name = ascii
	}
	return whitespace.ReplaceAllString(name, "_")
}
