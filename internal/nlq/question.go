package nlq

import (
	"strings"
	"unicode"
)

// CleanQuestion normalizes raw user text for classification: punctuation and
// emoji are stripped, whitespace is collapsed at the edges, and the result is
// lower-cased. Question marks and hyphens survive so patterns like "top-10"
// still read naturally.
func CleanQuestion(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case r == '?' || r == '-':
			b.WriteRune(r)
		}
	}
	return strings.ToLower(strings.TrimSpace(b.String()))
}
