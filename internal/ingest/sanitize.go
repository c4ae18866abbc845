package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonASCII = runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII
})

// SanitizeFilename reduces a client-supplied filename to a safe ASCII base name.
func SanitizeFilename(name string) string {
	// a Chain keeps internal buffers, so each call gets its own
	asciiOnly := transform.Chain(norm.NFKD, runes.Remove(nonASCII))
	ascii, _, err := transform.String(asciiOnly, name)
	if err != nil {
		ascii = name
	}
	ascii = strings.NewReplacer("/", " ", "\\", " ").Replace(ascii)

	var b strings.Builder
	for _, field := range strings.Fields(ascii) {
		if b.Len() > 0 {
			b.WriteByte('_')
		}
		for _, r := range field {
			if r == '_' || r == '.' || r == '-' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))) {
				b.WriteRune(r)
			}
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "upload"
	}
	return out
}
