// Package qa implements retrieval-augmented answer generation and answer
// evaluation with groundedness validation and deterministic fallbacks.
package qa

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"document-mentor/internal/config"
	"document-mentor/internal/helper"
	"document-mentor/internal/llmservice"
	"document-mentor/internal/models"
)

const (
	noInfoAnswer = "No relevant information found in the document to answer your question."
	noEvalAnswer = "I cannot evaluate your answer as no relevant document content was found for this question."
	briefAnswer  = "Your answer is very brief. Please provide more detail and explanation based on the document content."
)

// Retriever answers top-k nearest-neighbor queries over the live chunk set.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]models.SourceCitation, error)
}

// Engine drives grounded generation: retrieve, build attributed context,
// prompt, validate, and fall back deterministically when anything fails.
type Engine struct {
	retriever Retriever
	llm       *llmservice.Client
	cfg       *config.RAGConfig
}

func New(retriever Retriever, llm *llmservice.Client, cfg *config.RAGConfig) *Engine {
	return &Engine{retriever: retriever, llm: llm, cfg: cfg}
}

// Answer generates a source-attributed answer for query. It only returns an
// error when no index has been built; every other failure is absorbed into
// the result's confidence grade.
func (e *Engine) Answer(ctx context.Context, query string) (result models.AnswerResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Answer generation panicked")
			result = models.AnswerResult{
				Answer:     fmt.Sprintf("Error generating answer: %v", r),
				Sources:    []models.SourceCitation{},
				Confidence: models.ConfidenceError,
			}
			err = nil
		}
	}()

	sources, err := e.retriever.Search(ctx, query, e.cfg.TopK)
	if err != nil {
		if errors.Is(err, models.ErrIndexNotBuilt) {
			return models.AnswerResult{}, err
		}
		return models.AnswerResult{
			Answer:     fmt.Sprintf("Error generating answer: %v", err),
			Sources:    []models.SourceCitation{},
			Confidence: models.ConfidenceError,
		}, nil
	}

	if len(sources) == 0 {
		return models.AnswerResult{
			Answer:     noInfoAnswer,
			Sources:    []models.SourceCitation{},
			Confidence: models.ConfidenceLow,
		}, nil
	}

	contextStr := buildContext(sources, 0, e.cfg.MaxContextChars)
	prompt := fmt.Sprintf(models.AnswerPromptTemplate, contextStr, query)

	response, genErr := e.llm.Generate(ctx, prompt)
	if genErr != nil {
		log.Error().Err(genErr).Msg("LLM answer generation failed, using fallback")
		return e.fallbackAnswer(sources), nil
	}

	if !isGrounded(response, contextStr, e.cfg.AnswerOverlap) {
		log.Warn().Msg("Response appears ungrounded, using fallback")
		return e.fallbackAnswer(sources), nil
	}

	return models.AnswerResult{
		Answer:     response,
		Sources:    sources,
		Confidence: models.ConfidenceHigh,
	}, nil
}

// Evaluate scores a user's free-text answer against context retrieved with
// the question as a proxy query. It never fails hard: a missing index or
// empty retrieval produces a low-confidence canned result, and an empty
// answer is rejected before any retrieval or model work.
func (e *Engine) Evaluate(ctx context.Context, question, userAnswer string) (result models.EvalResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Answer evaluation panicked")
			result = models.EvalResult{
				Feedback:   fmt.Sprintf("Error evaluating answer: %v", r),
				Sources:    []models.SourceCitation{},
				Confidence: models.ConfidenceError,
			}
		}
	}()

	if len(strings.TrimSpace(userAnswer)) < 5 {
		return models.EvalResult{
			Feedback:   briefAnswer,
			Sources:    []models.SourceCitation{},
			Confidence: models.ConfidenceLow,
		}
	}

	sources, err := e.retriever.Search(ctx, question, e.cfg.TopK)
	if err != nil || len(sources) == 0 {
		return models.EvalResult{
			Feedback:   noEvalAnswer,
			Sources:    []models.SourceCitation{},
			Confidence: models.ConfidenceLow,
		}
	}

	contextStr := buildContext(sources, e.cfg.SnippetChars, e.cfg.EvalContextChars)
	prompt := fmt.Sprintf(models.EvalPromptTemplate, contextStr, question, userAnswer)

	response, genErr := e.llm.Generate(ctx, prompt)
	if genErr != nil {
		log.Error().Err(genErr).Msg("LLM evaluation failed, using fallback")
		return e.fallbackEvaluation(userAnswer, sources)
	}

	if !e.isEvaluationGrounded(response, contextStr, userAnswer) {
		log.Warn().Msg("Evaluation appears ungrounded, using fallback")
		return e.fallbackEvaluation(userAnswer, sources)
	}

	return models.EvalResult{
		Feedback:   response,
		Sources:    sources,
		Confidence: models.ConfidenceHigh,
	}
}

// buildContext concatenates source-attributed blocks in retrieval order.
// snippetChars > 0 truncates each chunk before attribution; maxChars caps
// the whole context, cutting at block boundaries where feasible and marking
// any truncation with an ellipsis.
func buildContext(sources []models.SourceCitation, snippetChars, maxChars int) string {
	var b strings.Builder
	truncated := false
	for i, src := range sources {
		text := src.Text
		if snippetChars > 0 {
			text = helper.TruncateChars(text, snippetChars)
		}
		block := fmt.Sprintf("[SOURCE %d - Section: %s, Paragraph: %d]\n%s", i+1, src.Section, src.Paragraph, text)

		if b.Len() == 0 {
			if len(block) > maxChars {
				// A single oversized block still gets cut mid-block.
				b.WriteString(helper.TruncateChars(block, maxChars))
				truncated = true
				break
			}
			b.WriteString(block)
			continue
		}
		if b.Len()+2+len(block) > maxChars {
			truncated = true
			break
		}
		b.WriteString("\n\n")
		b.WriteString(block)
	}
	if truncated {
		b.WriteString("...")
	}
	return b.String()
}

// isGrounded accepts a response that cites sources explicitly or shares more
// than minOverlap distinct words with the context.
func isGrounded(response, contextStr string, minOverlap int) bool {
	upper := strings.ToUpper(response)
	if strings.Contains(upper, "SOURCE") || strings.Contains(upper, "SECTION") {
		return true
	}
	return helper.WordOverlap(response, contextStr) > minOverlap
}

// isEvaluationGrounded additionally requires the feedback to engage with the
// user's own answer, not just the document.
func (e *Engine) isEvaluationGrounded(evaluation, contextStr, userAnswer string) bool {
	upper := strings.ToUpper(evaluation)
	if strings.Contains(upper, "SOURCE") || strings.Contains(upper, "SECTION") {
		return true
	}
	return helper.WordOverlap(evaluation, contextStr) > e.cfg.EvalContextOverlap &&
		helper.WordOverlap(evaluation, userAnswer) > e.cfg.EvalAnswerOverlap
}

// fallbackAnswer builds an extract-based answer from the top retrieved
// chunks without any model involvement.
func (e *Engine) fallbackAnswer(sources []models.SourceCitation) models.AnswerResult {
	parts := make([]string, 0, 3)
	for _, src := range sources[:min(3, len(sources))] {
		content := helper.TruncateChars(src.Text, 200)
		parts = append(parts, fmt.Sprintf("From %s (paragraph %d): %s", src.Section, src.Paragraph, content))
	}

	answer := "Based on the document content:\n\n" + strings.Join(parts, "\n\n")
	if len(answer) > 500 {
		answer = helper.TruncateChars(answer, 500) + "..."
	}

	return models.AnswerResult{
		Answer:     answer,
		Sources:    sources,
		Confidence: models.ConfidenceMedium,
	}
}

// fallbackEvaluation produces parameterized canned feedback from lexical
// overlap and answer length.
func (e *Engine) fallbackEvaluation(userAnswer string, sources []models.SourceCitation) models.EvalResult {
	wordCount := helper.WordCount(userAnswer)

	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your %d-word response. ", wordCount)

	if len(sources) > 0 {
		var docContent strings.Builder
		for _, src := range sources[:min(3, len(sources))] {
			docContent.WriteString(src.Text)
			docContent.WriteString(" ")
		}
		switch overlap := helper.WordOverlap(userAnswer, docContent.String()); {
		case overlap > 10:
			b.WriteString("Your answer shows good engagement with the document content. ")
		case overlap > 5:
			b.WriteString("Your answer has some connection to the document content. ")
		default:
			b.WriteString("Consider referencing more specific details from the document. ")
		}
	}

	switch {
	case wordCount < 20:
		b.WriteString("Try to provide more detailed explanations and examples from the document.")
	case wordCount > 150:
		b.WriteString("Good detail in your response - you've provided comprehensive coverage.")
	default:
		b.WriteString("Good length for your response.")
	}

	return models.EvalResult{
		Feedback:   b.String(),
		Sources:    sources,
		Confidence: models.ConfidenceMedium,
	}
}
