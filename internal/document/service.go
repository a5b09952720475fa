// Package document owns the inbound operation surface: processing uploads
// into a retrievable session and serving questions, challenges and stats
// against the current session.
package document

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"document-mentor/internal/challenge"
	"document-mentor/internal/chunker"
	"document-mentor/internal/config"
	"document-mentor/internal/extractor"
	"document-mentor/internal/helper"
	"document-mentor/internal/llmservice"
	"document-mentor/internal/models"
	"document-mentor/internal/qa"
	"document-mentor/internal/segmenter"
	"document-mentor/internal/summarizer"
	"document-mentor/internal/vectorindex"
)

// Session is one processed document: its chunk set plus the directory of
// its persisted index. Sessions are immutable once registered; a new
// processing run registers a fresh session and swaps the current pointer,
// so readers of the old session finish against the old index files.
type Session struct {
	ID        string
	Filename  string
	Sections  []string
	Chunks    []models.Chunk
	Summary   string
	TextLen   int
	Index     *vectorindex.Index
	CreatedAt time.Time
}

// Service wires the pipeline together and guards the session registry.
type Service struct {
	cfg      *config.Config
	embedder vectorindex.Embedder
	splitter *chunker.Splitter
	summ     *summarizer.Summarizer
	qa       *qa.Engine
	quiz     *challenge.Engine

	mu        sync.RWMutex
	sessions  map[string]*Session
	currentID string
}

func NewService(cfg *config.Config, embedder vectorindex.Embedder, llm *llmservice.Client) *Service {
	s := &Service{
		cfg:      cfg,
		embedder: embedder,
		splitter: chunker.New(&cfg.RAG),
		summ:     summarizer.New(llm, &cfg.RAG),
		sessions: make(map[string]*Session),
	}
	// The service itself is the retriever: it resolves the current session
	// on every search, so the qa engine never holds a stale index.
	s.qa = qa.New(s, llm, &cfg.RAG)
	s.quiz = challenge.New(s.qa, llm, &cfg.RAG, time.Second)
	return s
}

// Search implements qa.Retriever against the current session's index.
func (s *Service) Search(ctx context.Context, query string, k int) ([]models.SourceCitation, error) {
	session, err := s.Current()
	if err != nil {
		return nil, err
	}
	return session.Index.Search(ctx, query, k)
}

// Current returns the live session or ErrIndexNotBuilt when none exists.
func (s *Service) Current() (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentID == "" {
		return nil, fmt.Errorf("%w: please process a document first", models.ErrIndexNotBuilt)
	}
	return s.sessions[s.currentID], nil
}

// Process runs the full pipeline on an uploaded file: extract, segment,
// chunk, summarize, build the index, then atomically publish the new
// session as current.
func (s *Service) Process(ctx context.Context, r io.ReadSeeker, filename string) (*models.ProcessResult, error) {
	log.Info().Str("filename", filename).Msg("Starting document processing")

	text, err := extractor.Extract(r, filename)
	if err != nil {
		return nil, err
	}

	order, sections, err := segmenter.Split(text)
	if err != nil {
		return nil, err
	}

	var chunks []models.Chunk
	for _, name := range order {
		pieces := s.splitter.Split(sections[name])
		log.Info().Str("section", name).Int("chunks", len(pieces)).Msg("Chunked section")
		for idx, piece := range pieces {
			chunks = append(chunks, models.Chunk{
				Text:      piece,
				Section:   name,
				Paragraph: idx + 1,
			})
		}
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w generated from document", models.ErrNoChunks)
	}
	log.Info().Int("total", len(chunks)).Msg("Generated chunks")

	summary := s.summ.Summarize(ctx, order, sections)

	id, err := helper.GenerateUUID()
	if err != nil {
		return nil, err
	}
	index := vectorindex.New(s.indexDir(id), s.embedder)
	indexed, err := index.Build(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("failed to build vector index: %w", err)
	}

	session := &Session{
		ID:        id,
		Filename:  filename,
		Sections:  order,
		Chunks:    indexed,
		Summary:   summary,
		TextLen:   len(text),
		Index:     index,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.currentID = id
	s.mu.Unlock()

	log.Info().Str("session", id).Msg("Document processing completed")
	return &models.ProcessResult{
		Sections: order,
		Chunks:   indexed,
		Summary:  summary,
		Stats: models.Stats{
			TotalChunks:     len(indexed),
			TotalSections:   len(order),
			TotalTextLength: len(text),
		},
	}, nil
}

// Answer validates the query and runs grounded answer generation. It fails
// with ErrIndexNotBuilt before any model work when no document is loaded.
func (s *Service) Answer(ctx context.Context, query string) (models.AnswerResult, error) {
	if strings.TrimSpace(query) == "" {
		return models.AnswerResult{}, fmt.Errorf("%w: query is required", models.ErrEmptyInput)
	}
	return s.qa.Answer(ctx, query)
}

// InitChallenge generates n quiz questions from the given chunks, falling
// back to the current session's chunk set when none are supplied.
func (s *Service) InitChallenge(ctx context.Context, chunks []models.Chunk, n int) ([]string, error) {
	if len(chunks) == 0 {
		session, err := s.Current()
		if err != nil {
			return nil, fmt.Errorf("%w: no document chunks available", models.ErrNoDocument)
		}
		chunks = session.Chunks
	}
	return s.quiz.GenerateQuestions(ctx, chunks, n), nil
}

// EvaluateChallengeAnswer validates inputs and scores the answer.
func (s *Service) EvaluateChallengeAnswer(ctx context.Context, question, answer string) (models.EvalResult, error) {
	if strings.TrimSpace(question) == "" {
		return models.EvalResult{}, fmt.Errorf("%w: question is required", models.ErrEmptyInput)
	}
	if strings.TrimSpace(answer) == "" {
		return models.EvalResult{}, fmt.Errorf("%w: answer is required", models.ErrEmptyInput)
	}
	return s.quiz.EvaluateAnswer(ctx, question, answer), nil
}

// Info computes statistics from the live chunk set.
func (s *Service) Info() (models.DocumentInfo, error) {
	session, err := s.Current()
	if err != nil {
		return models.DocumentInfo{}, fmt.Errorf("%w currently", models.ErrNoDocument)
	}

	totalChars := 0
	for _, c := range session.Chunks {
		totalChars += len(c.Text)
	}
	avg := 0
	if len(session.Chunks) > 0 {
		avg = totalChars / len(session.Chunks)
	}
	return models.DocumentInfo{
		Filename:         session.Filename,
		TotalChunks:      len(session.Chunks),
		Sections:         session.Sections,
		TotalSections:    len(session.Sections),
		TotalCharacters:  totalChars,
		AverageChunkSize: avg,
	}, nil
}

func (s *Service) indexDir(sessionID string) string {
	return filepath.Join(s.cfg.Storage.DataDir, "index", sessionID)
}
