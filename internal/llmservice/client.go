// Package llmservice adapts an OpenAI-compatible chat endpoint to the
// generative service contract. All retry and response-normalization policy
// lives here; callers see a plain prompt-to-text call.
package llmservice

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"document-mentor/internal/config"
	"document-mentor/internal/models"
)

// ContentGenerator is the slice of the langchaingo model surface the client
// needs. *openai.LLM satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

var errEmptyResponse = errors.New("empty response from LLM")

var thinkTag = regexp.MustCompile(models.ThinkTag)

// Client wraps a generative model with a bounded exponential-backoff retry
// policy: maxAttempts total tries with delays doubling from initialDelay.
type Client struct {
	model        ContentGenerator
	maxAttempts  int
	initialDelay time.Duration
}

// New builds a client around an existing model, mainly for tests.
func New(model ContentGenerator, maxAttempts int, initialDelay time.Duration) *Client {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Client{model: model, maxAttempts: maxAttempts, initialDelay: initialDelay}
}

// NewOpenAI builds a client from config for an OpenAI-compatible endpoint.
func NewOpenAI(cfg *config.LLMConfig, maxAttempts int) (*Client, error) {
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return New(llm, maxAttempts, time.Second), nil
}

// Generate prompts the model and returns normalized plain text. Transport
// and empty-response failures are retried sequentially with exponential
// backoff; exhaustion surfaces as ErrModelUnavailable so callers can fall
// back deterministically.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.model == nil {
		return "", models.ErrModelUnavailable
	}

	attempt := 0
	op := func() (string, error) {
		attempt++
		resp, err := c.model.GenerateContent(ctx, []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeHuman, prompt),
		})
		if err != nil {
			log.Error().Err(err).Int("attempt", attempt).Msg("LLM call failed")
			return "", err
		}
		text := Normalize(resp)
		if text == "" {
			log.Warn().Int("attempt", attempt).Msg("Empty response from LLM")
			return "", errEmptyResponse
		}
		return text, nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.initialDelay
	expo.Multiplier = 2
	expo.RandomizationFactor = 0

	text, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(uint(c.maxAttempts)),
	)
	if err != nil {
		return "", errors.Join(models.ErrModelUnavailable, err)
	}
	return text, nil
}

// Normalize flattens the structured model response to plain text: the first
// non-empty choice, trimmed, with any chain-of-thought tags stripped.
func Normalize(resp *llms.ContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, choice := range resp.Choices {
		if choice == nil {
			continue
		}
		text := strings.TrimSpace(thinkTag.ReplaceAllString(choice.Content, ""))
		if text != "" {
			return text
		}
	}
	return ""
}
