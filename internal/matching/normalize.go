// Package matching implements the text normalization and approximate
// name-matching rules used to resolve free-text district, market, and
// commodity labels against parsed report rows and the reference catalog.
package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes (NFKD) and drops combining marks, so accented and
// transliterated market names compare equal to their plain-ASCII forms.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// NormalizeMarket normalizes a market name for membership tests against the
// catalog's district market sets: lowercase, Unicode-decompose and drop
// combining marks, convert NBSP to space and remove zero-width space, strip
// punctuation entirely, collapse whitespace, trim. Idempotent.
func NormalizeMarket(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	s, _, _ = transform.String(stripMarks, s)
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, "​", "")
	s = stripPunct(s, "")
	return collapseSpace(s)
}

// NormalizeText normalizes free text for approximate matching: lowercase,
// punctuation replaced by spaces (so "Soyabean(Black)" still tokenizes),
// whitespace collapsed, trimmed. Idempotent.
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(strings.TrimSpace(s))
	s = stripPunct(s, " ")
	return collapseSpace(s)
}

// stripPunct replaces every rune that is neither a word character nor
// whitespace with repl.
func stripPunct(s, repl string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isWordRune(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteString(repl)
		}
	}
	return b.String()
}

// isWordRune mirrors the \w character class: letters, digits, underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// collapseSpace squeezes whitespace runs to single spaces and trims.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
