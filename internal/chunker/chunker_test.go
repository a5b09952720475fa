package chunker

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"document-mentor/internal/config"
)

func testConfig() *config.RAGConfig {
	return &config.RAGConfig{
		ChunkSize:      600,
		ChunkOverlap:   100,
		MinChunkLength: 30,
	}
}

func TestSplit_Empty(t *testing.T) {
	s := New(testConfig())
	assert.Empty(t, s.Split(""))
	assert.Empty(t, s.Split("   \n\t  "))
}

func TestSplit_ShortSectionSingleChunk(t *testing.T) {
	s := New(testConfig())
	text := "This is a single paragraph that easily fits inside one chunk of six hundred characters."

	chunks := s.Split(text)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplit_FiltersNoiseChunks(t *testing.T) {
	s := New(testConfig())
	// Whole section is at or below the noise floor.
	assert.Empty(t, s.Split("tiny bit of text"))
}

func TestSplit_ChunkBounds(t *testing.T) {
	s := New(testConfig())

	var b strings.Builder
	for i := 0; i < 60; i++ {
		b.WriteString("The study observed consistent improvements across all measured variables. ")
	}

	chunks := s.Split(b.String())
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		trimmed := len(strings.TrimSpace(c))
		assert.Greater(t, trimmed, 30)
		assert.LessOrEqual(t, len(c), 600)
	}
}

func TestSplit_RecursiveOverlapBound(t *testing.T) {
	s := New(testConfig())

	// Numbered sentences keep the text aperiodic, so a long shared
	// suffix/prefix between chunks can only come from real overlap.
	var b strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "Observation %03d recorded a unique measurement during the trial window. ", i)
	}

	chunks := s.Split(b.String())
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		assert.LessOrEqual(t, sharedOverlap(chunks[i-1], chunks[i]), 100)
	}
}

// sharedOverlap returns the length of the longest suffix of prev that is also
// a prefix of next.
func sharedOverlap(prev, next string) int {
	for k := min(len(prev), len(next)); k > 0; k-- {
		if strings.HasPrefix(next, prev[len(prev)-k:]) {
			return k
		}
	}
	return 0
}

func TestSplit_Deterministic(t *testing.T) {
	s := New(testConfig())

	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("Each iteration of the experiment produced slightly different raw readings. ")
	}
	text := b.String()

	first := s.Split(text)
	second := s.Split(text)
	assert.Equal(t, first, second)
}

func TestFallbackSplit_StrideAndWidth(t *testing.T) {
	text := strings.Repeat("x", 1300)

	chunks := fallbackSplit(text)
	require.Len(t, chunks, 4) // starts at 0, 400, 800, 1200

	for i, c := range chunks {
		if i < len(chunks)-1 {
			assert.Len(t, c, 500)
		} else {
			assert.LessOrEqual(t, len(c), 500)
		}
	}

	// Consecutive chunks share exactly 100 characters of input span.
	assert.Equal(t, text[400:900], chunks[1])
}

func TestFallbackSplit_MultibyteSafe(t *testing.T) {
	text := strings.Repeat("é", 700)

	chunks := fallbackSplit(text)
	require.Len(t, chunks, 2)
	assert.Equal(t, 500, utf8.RuneCountInString(chunks[0]))
	assert.Equal(t, 300, utf8.RuneCountInString(chunks[1]))
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c))
	}
}

func TestFallbackSplit_ShortInput(t *testing.T) {
	chunks := fallbackSplit("short")
	require.Len(t, chunks, 1)
	assert.Equal(t, "short", chunks[0])
}
