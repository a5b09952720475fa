// Package chunker splits section text into overlapping bounded-size chunks
// suitable for embedding and generation context.
package chunker

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/textsplitter"

	"document-mentor/internal/config"
)

const (
	fallbackChunkSize = 500
	fallbackStride    = 400
)

// Splitter chunks text recursively on coarse-to-fine separators, preferring
// the coarsest separator that keeps pieces under the target size.
type Splitter struct {
	splitter textsplitter.RecursiveCharacter
	minLen   int
}

func New(cfg *config.RAGConfig) *Splitter {
	return &Splitter{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(cfg.ChunkSize),
			textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
			textsplitter.WithSeparators([]string{"\n\n", "\n", ".", "!", "?", ";", " ", ""}),
		),
		minLen: cfg.MinChunkLength,
	}
}

// Split returns the ordered chunk texts for one section. Empty input yields
// an empty result, not an error; a failing recursive split falls back to
// naive fixed-stride slicing, which cannot fail.
func (s *Splitter) Split(sectionText string) []string {
	if strings.TrimSpace(sectionText) == "" {
		return nil
	}

	pieces, err := s.splitter.SplitText(sectionText)
	if err != nil {
		log.Warn().Err(err).Msg("Recursive chunking failed, using fixed-stride fallback")
		return fallbackSplit(sectionText)
	}

	// Drop noise chunks that are too short to be retrievable.
	chunks := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if len(strings.TrimSpace(piece)) > s.minLen {
			chunks = append(chunks, piece)
		}
	}
	return chunks
}

// fallbackSplit slices fixed 500-char windows advanced by 400, giving
// 100 chars of overlap between consecutive chunks. Windows are measured in
// runes so multi-byte text is never cut mid-character.
func fallbackSplit(text string) []string {
	runes := []rune(text)
	var chunks []string
	for start := 0; start < len(runes); start += fallbackStride {
		end := min(start+fallbackChunkSize, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
