// Package normalize turns raw user text into the comparison form used by
// the classifier and the entity index.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Text lowercases s, folds diacritics, drops everything except letters,
// digits, whitespace and hyphens, collapses whitespace runs to a single
// space and trims. Text is total and idempotent.
func Text(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToLower(foldAccents(s))

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Key is Text with hyphens treated as word separators, so "built-in ovens"
// and "built in ovens" compare equal.
func Key(s string) string {
	return strings.Join(Tokens(s), " ")
}

// Tokens splits the normalized form of s on spaces and hyphens.
func Tokens(s string) []string {
	return strings.FieldsFunc(Text(s), func(r rune) bool {
		return r == ' ' || r == '-'
	})
}

// foldAccents strips combining marks after canonical decomposition.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
