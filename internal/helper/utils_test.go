package helper

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestWordOverlap(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"disjoint", "alpha beta", "gamma delta", 0},
		{"case insensitive", "Alpha BETA", "alpha beta", 2},
		{"duplicates count once", "alpha alpha beta", "alpha beta beta", 2},
		{"punctuation is part of the word", "dog", "dog.", 0},
		{"empty", "", "alpha", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WordOverlap(tt.a, tt.b))
		})
	}
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount("   "))
	assert.Equal(t, 3, WordCount("one  two\nthree"))
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "one two", TruncateWords("  one two  ", 5))
	assert.Equal(t, "one two...", TruncateWords("one two three four", 2))
	assert.Equal(t, "one two three", TruncateWords("one two three", 3))
}

func TestTruncateChars(t *testing.T) {
	tests := []struct {
		name string
		s    string
		n    int
		want string
	}{
		{"passthrough", "hello", 10, "hello"},
		{"exact fit", "hello", 5, "hello"},
		{"ascii cut", "hello", 3, "hel"},
		{"backs off mid-rune", "aé", 2, "a"},
		{"whole rune kept", "aé", 3, "aé"},
		{"cjk backs off", "日本語", 4, "日"},
		{"zero", "hello", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateChars(tt.s, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, len(got), tt.n)
		})
	}
}
