// Package slug derives stable identifiers from display names.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make lowercases name, strips combining marks (Latin accents and Arabic
// harakat alike), drops punctuation and joins words with hyphens. Letters of
// any script are kept. The result may be empty.
func Make(name string) string {
	cleaned, _, err := transform.String(stripMarks, name)
	if err != nil {
		cleaned = name
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(cleaned) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			pendingHyphen = true
		}
	}
	return b.String()
}
