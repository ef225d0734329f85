// Package textutil provides the shared text normalization used by gate
// classification and routing heuristics. The folding rules are a protocol
// contract: both sides must see identical text.
package textutil

import (
	"strings"
	"unicode"
)

// Normalize trims surrounding whitespace and lower-cases s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// StripPunctuation removes punctuation and symbol runes, keeping letters,
// digits and whitespace. "Yes, please!" becomes "Yes please".
func StripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Fold applies the full classification normalization: punctuation strip,
// trim, lower-case and inner whitespace collapse.
func Fold(s string) string {
	return strings.Join(strings.Fields(Normalize(StripPunctuation(s))), " ")
}

// FirstToken returns the first whitespace-delimited token of s, or "".
func FirstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// TokenAfter returns the token immediately following the leading token of
// s, or "". Used to inspect the word after a recognized command prefix.
func TokenAfter(s string) string {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// HasTokenPrefix reports whether text equals token or starts with token
// followed by a space. This exact boundary rule is deliberate; widening or
// narrowing it changes gate classification behavior across turns.
func HasTokenPrefix(text, token string) bool {
	if text == token {
		return true
	}
	return strings.HasPrefix(text, token+" ")
}
