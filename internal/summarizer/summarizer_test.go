package summarizer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"document-mentor/internal/config"
	"document-mentor/internal/llmservice"
)

type fakeModel struct {
	response string
	calls    int
}

func (f *fakeModel) GenerateContent(_ context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func newSummarizer(model *fakeModel) *Summarizer {
	var llm *llmservice.Client
	if model != nil {
		llm = llmservice.New(model, 1, 0)
	}
	return New(llm, &config.RAGConfig{SummaryWordLimit: 150})
}

func sampleSections() ([]string, map[string]string) {
	order := []string{"Introduction", "Methods", "Results"}
	sections := map[string]string{
		"Introduction": "This study examines renewable energy adoption in rural communities. It focuses on household-level decisions. Additional context follows here.",
		"Methods":      "Surveys were distributed to five hundred households. Responses were collected over six months. Analysis used standard techniques.",
		"Results":      "Adoption rates increased where subsidies were available. Cost remained the dominant barrier. Other factors were secondary.",
	}
	return order, sections
}

func TestSummarize_ReturnsModelSummary(t *testing.T) {
	model := &fakeModel{response: "The document studies renewable energy adoption in rural communities."}
	s := newSummarizer(model)

	order, sections := sampleSections()
	summary := s.Summarize(context.Background(), order, sections)
	assert.Equal(t, model.response, summary)
	assert.Equal(t, 1, model.calls)
}

func TestSummarize_EnforcesWordLimit(t *testing.T) {
	model := &fakeModel{response: strings.Repeat("word ", 200)}
	s := newSummarizer(model)

	order, sections := sampleSections()
	summary := s.Summarize(context.Background(), order, sections)
	assert.Equal(t, 150, len(strings.Fields(summary)))
	assert.True(t, strings.HasSuffix(summary, "..."))
}

func TestSummarize_ModelFailureUsesFallback(t *testing.T) {
	s := newSummarizer(nil)

	order, sections := sampleSections()
	summary := s.Summarize(context.Background(), order, sections)
	assert.True(t, strings.HasPrefix(summary, "Document Summary:"))
}

func TestFallback_FirstSentencesOfLeadingSections(t *testing.T) {
	s := newSummarizer(nil)

	order, sections := sampleSections()
	summary := s.Fallback(order, sections)

	require.True(t, strings.HasPrefix(summary, "Document Summary:"))
	lines := strings.Split(summary, "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "Introduction: This study examines renewable energy adoption in rural communities.")
	assert.Contains(t, lines[1], "It focuses on household-level decisions")
	assert.NotContains(t, lines[1], "Additional context")
	assert.Contains(t, lines[2], "Methods: Surveys were distributed")
	assert.Contains(t, lines[3], "Results: Adoption rates increased")
}

func TestFallback_SkipsShortSections(t *testing.T) {
	s := newSummarizer(nil)

	order := []string{"Introduction", "Notes"}
	sections := map[string]string{
		"Introduction": "A detailed opening sentence about the document's core subject matter. More follows.",
		"Notes":        "Short. Tiny.",
	}
	summary := s.Fallback(order, sections)
	assert.Contains(t, summary, "Introduction:")
	assert.NotContains(t, summary, "Notes:")
}

func TestFallback_NoUsableSections(t *testing.T) {
	s := newSummarizer(nil)

	order := []string{"A", "B"}
	sections := map[string]string{"A": "Tiny.", "B": "Also tiny."}
	summary := s.Fallback(order, sections)
	assert.Equal(t, "Document contains 2 sections with processed content ready for analysis.", summary)
}
