package helper

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// GenerateUUID creates a random unique UUID string
func GenerateUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate UUID: %v", err)
	}
	return id.String(), nil
}

// CreateFolder creates the folder and any missing parents.
func CreateFolder(path string) error {
	return os.MkdirAll(path, 0o755)
}

// WordOverlap counts distinct words, lowercased and split on whitespace,
// shared between a and b.
func WordOverlap(a, b string) int {
	setA := wordSet(a)
	setB := wordSet(b)
	count := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			count++
		}
	}
	return count
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// TruncateWords limits s to at most n words, appending an ellipsis when cut.
func TruncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return strings.TrimSpace(s)
	}
	return strings.Join(words[:n], " ") + "..."
}

// TruncateChars cuts s to at most n bytes without splitting a UTF-8 rune;
// the cut backs up to the nearest rune boundary.
func TruncateChars(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
