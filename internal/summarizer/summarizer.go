// Package summarizer produces a short document summary from the section
// map, with a deterministic extract-based fallback.
package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"document-mentor/internal/config"
	"document-mentor/internal/helper"
	"document-mentor/internal/llmservice"
	"document-mentor/internal/models"
)

const (
	maxSummarySections = 4
	sectionSnippet     = 400
	combinedCap        = 1800
)

type Summarizer struct {
	llm *llmservice.Client
	cfg *config.RAGConfig
}

func New(llm *llmservice.Client, cfg *config.RAGConfig) *Summarizer {
	return &Summarizer{llm: llm, cfg: cfg}
}

// Summarize asks the model for a bounded-length summary of the leading
// sections and enforces the word limit on the result. Model failure after
// retries degrades to the structural fallback; Summarize never fails.
func (s *Summarizer) Summarize(ctx context.Context, order []string, sections map[string]string) string {
	var combined strings.Builder
	for _, name := range order[:min(maxSummarySections, len(order))] {
		snippet := helper.TruncateChars(sections[name], sectionSnippet)
		fmt.Fprintf(&combined, "\n%s: %s\n", name, snippet)
	}
	input := helper.TruncateChars(combined.String(), combinedCap)

	limit := s.cfg.SummaryWordLimit
	prompt := fmt.Sprintf(models.SummaryPromptTemplate, limit, input, limit)

	response, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Msg("Summary generation failed, using fallback")
		return s.Fallback(order, sections)
	}

	log.Info().Msg("Summary generated successfully")
	return helper.TruncateWords(response, limit)
}

// Fallback extracts the first sentences of the leading sections.
func (s *Summarizer) Fallback(order []string, sections map[string]string) string {
	var parts []string
	for _, name := range order[:min(3, len(order))] {
		sentences := strings.SplitN(sections[name], ".", 3)
		clean := strings.TrimSpace(strings.Join(sentences[:min(2, len(sentences))], ". "))
		if len(clean) > 20 {
			parts = append(parts, fmt.Sprintf("%s: %s", name, clean))
		}
	}
	if len(parts) > 0 {
		return "Document Summary:\n" + strings.Join(parts, "\n")
	}
	return fmt.Sprintf("Document contains %d sections with processed content ready for analysis.", len(sections))
}
