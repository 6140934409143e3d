// Package normalize canonicalizes free-form text for comparison. Sheet
// exports vary wildly in casing, accentuation and punctuation ("Situação",
// "situacao", "SITUACAO "), so every comparison in the resolver goes
// through Key first.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Key canonicalizes a string for fuzzy key comparison: lowercase, NFD
// decomposition with combining marks removed, then every character that is
// not a lowercase ASCII letter or digit stripped. Idempotent; empty input
// yields the empty string.
func Key(s string) string {
	s = stripDiacritics(strings.ToLower(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Slug derives a stable student identity from a display name: trimmed,
// diacritics stripped, lowercased, whitespace runs collapsed to a single
// underscore. "João Pedro" and "joão  pedro" both slug to "joao_pedro".
func Slug(name string) string {
	fields := strings.Fields(stripDiacritics(name))
	return strings.ToLower(strings.Join(fields, "_"))
}

// stripDiacritics decomposes to NFD and drops combining marks (Mn), so
// 'ç' becomes 'c' and 'ã' becomes 'a'.
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
