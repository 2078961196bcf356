package review_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/wordladder/internal/review"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercases", input: "Apple", expected: "apple"},
		{name: "strips punctuation", input: "Apple!", expected: "apple"},
		{name: "trims whitespace", input: "  cat \t", expected: "cat"},
		{name: "drops parenthetical hint", input: "run (verb)", expected: "run"},
		{name: "drops leading parenthetical", input: "(to) run", expected: "run"},
		{name: "keeps inner spaces", input: "ice cream", expected: "ice cream"},
		{name: "keeps diacritics", input: "Café", expected: "café"},
		{name: "keeps cyrillic", input: "Собака.", expected: "собака"},
		{name: "edge punctuation after space", input: "cat .", expected: "cat"},
		{name: "empty string", input: "", expected: ""},
		{name: "only punctuation", input: "?!.,", expected: "?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, review.Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Apple!", "run (verb)", "  A (b) c  ", "x . ", "((nested))", "a)b(c",
		"Hello, World", "-_-", "tab\tseparated", "", "(", "mañana (tomorrow).",
	}

	for _, in := range inputs {
		once := review.Normalize(in)
		assert.Equal(t, once, review.Normalize(once), "input %q", in)
	}
}

func TestMatch(t *testing.T) {
	assert.True(t, review.Match("Apple!", "apple"))
	assert.True(t, review.Match("run", "run (verb)"))
	assert.True(t, review.Match(" КОТ ", "кот"))
	assert.False(t, review.Match("dog", "кот"))
	assert.False(t, review.Match("", "кот"))
	assert.True(t, review.Match("", "()"), "both sides normalize to empty")
}
