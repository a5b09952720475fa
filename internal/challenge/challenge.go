// Package challenge generates document-grounded quiz questions and scores
// free-text answers, reusing the qa engine's grounding discipline.
package challenge

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"document-mentor/internal/config"
	"document-mentor/internal/helper"
	"document-mentor/internal/llmservice"
	"document-mentor/internal/models"
	"document-mentor/internal/qa"
)

const (
	maxDiverseChunks = 8
	plainChunkTake   = 5
)

// Candidate question line formats, first match wins per line.
var questionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+\.\s*(.+\?)\s*$`),
	regexp.MustCompile(`^\d+\)\s*(.+\?)\s*$`),
	regexp.MustCompile(`^-\s*(.+\?)\s*$`),
	regexp.MustCompile(`^•\s*(.+\?)\s*$`),
	regexp.MustCompile(`^(.+\?)\s*$`),
}

// Phrases that mark a question as needing knowledge beyond the document.
var invalidPhrases = []*regexp.Regexp{
	regexp.MustCompile(`external\s+knowledge`),
	regexp.MustCompile(`outside\s+the\s+document`),
	regexp.MustCompile(`research\s+further`),
	regexp.MustCompile(`google\s+search`),
	regexp.MustCompile(`additional\s+sources`),
}

var genericQuestions = []string{
	"What are the main themes or arguments presented in this document?",
	"What evidence or examples are provided to support the main points?",
	"What questions or implications does this document raise for further consideration?",
	"How might the information in this document be applied or interpreted?",
	"What connections can be made between different parts of this document?",
}

var noDocumentQuestions = []string{
	"What are the main points discussed in this document?",
	"How are the different sections related to each other?",
	"What conclusions can be drawn from the content?",
}

// Engine produces challenge questions from a chunk set and delegates answer
// scoring to the qa engine.
type Engine struct {
	qa         *qa.Engine
	llm        *llmservice.Client
	cfg        *config.RAGConfig
	retryDelay time.Duration
}

func New(qaEngine *qa.Engine, llm *llmservice.Client, cfg *config.RAGConfig, retryDelay time.Duration) *Engine {
	return &Engine{qa: qaEngine, llm: llm, cfg: cfg, retryDelay: retryDelay}
}

// GenerateQuestions returns exactly n validated questions. The model is
// retried on empty or invalid output with delays doubling from retryDelay
// between attempts; partial results are padded with
// structure-derived fallback questions, and total model failure yields n
// fallback questions. It never fails.
func (e *Engine) GenerateQuestions(ctx context.Context, chunks []models.Chunk, n int) []string {
	if n <= 0 {
		n = 3
	}
	if len(chunks) == 0 {
		if n < len(noDocumentQuestions) {
			return noDocumentQuestions[:n]
		}
		return noDocumentQuestions
	}

	selected := selectDiverseChunks(chunks)
	contextStr := buildQuestionContext(selected, e.cfg.SnippetChars)
	prompt := fmt.Sprintf(models.QuestionPromptTemplate, n, contextStr, n)

	delay := e.retryDelay
	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		if attempt > 1 && delay > 0 {
			select {
			case <-ctx.Done():
				return e.fallbackQuestions(selected, n)
			case <-time.After(delay):
			}
			delay *= 2
		}

		response, err := e.llm.Generate(ctx, prompt)
		if err != nil {
			log.Error().Err(err).Int("attempt", attempt).Msg("Question generation failed")
			break
		}

		questions := e.parseAndValidate(response, selected)
		if len(questions) >= n {
			log.Info().Int("count", len(questions)).Msg("Generated questions successfully")
			return questions[:n]
		}
		if len(questions) > 0 {
			log.Warn().Int("valid", len(questions)).Int("want", n).Msg("Padding with fallback questions")
			return append(questions, e.fallbackQuestions(selected, n-len(questions))...)
		}
		log.Warn().Int("attempt", attempt).Msg("No valid questions in response")
	}

	log.Info().Msg("Using fallback questions")
	return e.fallbackQuestions(selected, n)
}

// EvaluateAnswer scores answer against context retrieved by the question.
func (e *Engine) EvaluateAnswer(ctx context.Context, question, answer string) models.EvalResult {
	return e.qa.Evaluate(ctx, question, answer)
}

// selectDiverseChunks takes the first chunk seen per distinct section, in
// chunk-list order, capped at 8; when that finds nothing it falls back to
// the first 5 chunks unconditionally.
func selectDiverseChunks(chunks []models.Chunk) []models.Chunk {
	var selected []models.Chunk
	seen := make(map[string]struct{})
	for _, c := range chunks {
		if len(selected) >= maxDiverseChunks {
			break
		}
		if c.Section == "" {
			continue
		}
		if _, ok := seen[c.Section]; ok {
			continue
		}
		seen[c.Section] = struct{}{}
		selected = append(selected, c)
	}
	if len(selected) == 0 {
		selected = chunks[:min(plainChunkTake, len(chunks))]
	}
	return selected
}

func buildQuestionContext(selected []models.Chunk, snippetChars int) string {
	parts := make([]string, 0, len(selected))
	for i, c := range selected {
		section := c.Section
		if section == "" {
			section = models.UnknownSection
		}
		text := helper.TruncateChars(c.Text, snippetChars)
		parts = append(parts, fmt.Sprintf("[SECTION %d: %s]\n%s", i+1, section, text))
	}
	return strings.Join(parts, "\n\n")
}

func (e *Engine) parseAndValidate(response string, selected []models.Chunk) []string {
	// Overlap reference: concatenated text of the first 5 selected chunks.
	var docText strings.Builder
	for _, c := range selected[:min(5, len(selected))] {
		docText.WriteString(c.Text)
		docText.WriteString(" ")
	}

	var questions []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, pattern := range questionPatterns {
			m := pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			question := strings.TrimSpace(m[1])
			if e.isValidQuestion(question, docText.String()) {
				questions = append(questions, question)
			}
			break
		}
	}
	return questions
}

func (e *Engine) isValidQuestion(question, docText string) bool {
	if len(question) < 10 || !strings.HasSuffix(question, "?") {
		return false
	}
	lower := strings.ToLower(question)
	for _, pattern := range invalidPhrases {
		if pattern.MatchString(lower) {
			return false
		}
	}
	return helper.WordOverlap(question, docText) > e.cfg.QuestionOverlap
}

// fallbackQuestions derives questions from document structure alone, topping
// up from the generic pool until n is reached.
func (e *Engine) fallbackQuestions(chunks []models.Chunk, n int) []string {
	if len(chunks) == 0 {
		if n < len(noDocumentQuestions) {
			return noDocumentQuestions[:n]
		}
		return noDocumentQuestions
	}

	var sections []string
	seen := make(map[string]struct{})
	hasKeyTerms := false
	for _, c := range chunks[:min(10, len(chunks))] {
		if c.Section != "" {
			if _, ok := seen[c.Section]; !ok {
				seen[c.Section] = struct{}{}
				sections = append(sections, c.Section)
			}
		}
		for _, word := range strings.Fields(strings.ToLower(c.Text)) {
			if len(word) > 6 && isAlpha(word) {
				hasKeyTerms = true
				break
			}
		}
	}

	var questions []string
	if len(sections) > 1 {
		named := sections[:min(3, len(sections))]
		questions = append(questions,
			fmt.Sprintf("How do the different sections (%s) relate to each other?", strings.Join(named, ", ")))
	}
	if hasKeyTerms {
		questions = append(questions, "What is the significance of the key concepts discussed in this document?")
	}
	questions = append(questions, genericQuestions...)

	if n < len(questions) {
		return questions[:n]
	}
	return questions
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return s != ""
}
