package review

import (
	"regexp"
	"strings"
)

var parentheticalRe = regexp.MustCompile(`\s*\(.*?\)\s*`)

const strippedPunctuation = ".,/#!$%^&*;:{}=-_`~()"

// Normalize canonicalizes a free-text answer so that case, punctuation and
// parenthesized hints do not affect comparison. Diacritics are kept.
func Normalize(s string) string {
	s = parentheticalRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(strippedPunctuation, r) {
			return -1
		}
		return r
	}, s)
	// Stripping punctuation can expose edge whitespace ("cat ." -> "cat ").
	return strings.TrimSpace(s)
}

// Match reports whether answer and expected are equal after normalization.
func Match(answer, expected string) bool {
	return Normalize(answer) == Normalize(expected)
}
