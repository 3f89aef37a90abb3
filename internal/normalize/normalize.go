// Package normalize canonicalizes text produced by document readers before
// any pattern matching runs on it.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	horizontalSpaceRe = regexp.MustCompile(`[ \t\f\v]+`)
	newlineRunRe      = regexp.MustCompile(`\n{2,}`)
	spaceRunRe        = regexp.MustCompile(`\s+`)
)

// Text returns s in canonical form: NFKC, NUL and non-breaking spaces turned
// into plain spaces, CR line endings turned into LF, horizontal whitespace
// runs collapsed to one space, blank line runs collapsed to one newline, and
// surrounding whitespace trimmed. Text(Text(s)) == Text(s).
func Text(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\x00", " ")
	s = norm.NFKC.String(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = horizontalSpaceRe.ReplaceAllString(s, " ")
	s = newlineRunRe.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

// Line collapses every whitespace run, newlines included, into one space.
func Line(s string) string {
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(s, " "))
}

// Fold lower-cases s and strips combining marks so "Veintidós" and
// "veintidos" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(Line(out))
}
