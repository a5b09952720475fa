// Package vectorindex persists embedded chunks in a chromem-go database and
// answers nearest-neighbor queries over them.
package vectorindex

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"document-mentor/internal/models"
)

const (
	collectionName = "document_chunks"
	compress       = false
)

// Embedder converts text into a fixed-length vector. It must be
// deterministic for identical input within a session.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Index is a persisted similarity-searchable structure over one document's
// chunk set. Build fully overwrites prior content; Search loads lazily.
type Index struct {
	dir      string
	embedder Embedder
}

func New(dir string, embedder Embedder) *Index {
	return &Index{dir: dir, embedder: embedder}
}

// Build embeds every non-empty chunk and persists the collection, replacing
// whatever was stored before. Chunk IDs are assigned by enumeration order
// among the surviving chunks. The returned slice holds those chunks with
// their assigned IDs.
func (ix *Index) Build(ctx context.Context, chunks []models.Chunk) ([]models.Chunk, error) {
	valid := make([]models.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		c.ChunkID = len(valid)
		valid = append(valid, c)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w provided", models.ErrNoChunks)
	}

	db, err := chromem.NewPersistentDB(ix.dir, compress)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %v", err)
	}
	// Full rebuild, no merge or append semantics.
	if db.GetCollection(collectionName, nil) != nil {
		if err := db.DeleteCollection(collectionName); err != nil {
			return nil, fmt.Errorf("failed to drop collection: %v", err)
		}
	}
	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %v", err)
	}

	docs := make([]chromem.Document, 0, len(valid))
	for _, c := range valid {
		vector, err := ix.embedder.EmbedQuery(ctx, c.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk %d: %w", c.ChunkID, err)
		}
		docs = append(docs, chromem.Document{
			ID:        strconv.Itoa(c.ChunkID),
			Content:   c.Text,
			Metadata:  chunkMetadata(c),
			Embedding: vector,
		})
	}

	log.Info().Int("chunks", len(docs)).Str("dir", ix.dir).Msg("Building vector index")
	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("failed to add documents: %v", err)
	}
	return valid, nil
}

// Search embeds the query and returns up to k chunks ordered by similarity
// descending. A missing index is a hard error; any failure after the index
// is loaded yields an empty result instead of propagating.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]models.SourceCitation, error) {
	if k <= 0 {
		k = 5
	}

	collection, err := ix.load()
	if err != nil {
		return nil, err
	}

	vector, err := ix.embedder.EmbedQuery(ctx, query)
	if err != nil {
		log.Error().Err(err).Msg("Failed to embed query")
		return nil, nil
	}

	if count := collection.Count(); k > count {
		k = count
	}
	results, err := collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: vector,
		NResults:       k,
	})
	if err != nil {
		log.Error().Err(err).Msg("Similarity query failed")
		return nil, nil
	}

	citations := make([]models.SourceCitation, 0, len(results))
	for _, res := range results {
		citations = append(citations, resultToCitation(res))
	}
	log.Info().Int("results", len(citations)).Msg("Retrieved relevant chunks")
	return citations, nil
}

// Exists reports whether a persisted collection is present on disk.
func (ix *Index) Exists() bool {
	_, err := ix.load()
	return err == nil
}

func (ix *Index) load() (*chromem.Collection, error) {
	db, err := chromem.NewPersistentDB(ix.dir, compress)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrIndexNotBuilt, err)
	}
	collection := db.GetCollection(collectionName, nil)
	if collection == nil || collection.Count() == 0 {
		return nil, fmt.Errorf("%w: please process a document first", models.ErrIndexNotBuilt)
	}
	return collection, nil
}

func chunkMetadata(c models.Chunk) map[string]string {
	section := c.Section
	if section == "" {
		section = models.UnknownSection
	}
	return map[string]string{
		"section":   section,
		"paragraph": strconv.Itoa(c.Paragraph),
		"chunk_id":  strconv.Itoa(c.ChunkID),
	}
}

func resultToCitation(res chromem.Result) models.SourceCitation {
	paragraph, _ := strconv.Atoi(res.Metadata["paragraph"])
	chunkID, _ := strconv.Atoi(res.Metadata["chunk_id"])
	section := res.Metadata["section"]
	if section == "" {
		section = models.UnknownSection
	}
	return models.SourceCitation{
		Section:   section,
		Paragraph: paragraph,
		ChunkID:   chunkID,
		Text:      res.Content,
	}
}
