package models

// Chunk is the atomic retrievable unit of a processed document.
type Chunk struct {
	Text      string `json:"text"`
	Section   string `json:"section"`
	Paragraph int    `json:"paragraph"`
	ChunkID   int    `json:"chunk_id"`
}

// SourceCitation is the read-only projection of a chunk returned to callers,
// used both for display and for groundedness checks.
type SourceCitation struct {
	Section   string `json:"section"`
	Paragraph int    `json:"paragraph"`
	ChunkID   int    `json:"chunk_id"`
	Text      string `json:"text"`
}

// Confidence grades how an answer or evaluation was produced.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
	ConfidenceError  Confidence = "error"
)

// AnswerResult is the outcome of a grounded question-answering run.
type AnswerResult struct {
	Answer     string           `json:"answer"`
	Sources    []SourceCitation `json:"sources"`
	Confidence Confidence       `json:"confidence"`
}

// EvalResult is the outcome of scoring a user's free-text answer.
type EvalResult struct {
	Feedback   string           `json:"feedback"`
	Sources    []SourceCitation `json:"sources"`
	Confidence Confidence       `json:"confidence"`
}

// Stats summarizes a processing run.
type Stats struct {
	TotalChunks     int `json:"total_chunks"`
	TotalSections   int `json:"total_sections"`
	TotalTextLength int `json:"total_text_length"`
}

// ProcessResult is returned by document processing.
type ProcessResult struct {
	Sections []string `json:"sections"`
	Chunks   []Chunk  `json:"chunks"`
	Summary  string   `json:"summary"`
	Stats    Stats    `json:"stats"`
}

// DocumentInfo describes the currently loaded document's chunk set.
type DocumentInfo struct {
	Filename         string   `json:"filename"`
	TotalChunks      int      `json:"total_chunks"`
	Sections         []string `json:"sections"`
	TotalSections    int      `json:"total_sections"`
	TotalCharacters  int      `json:"total_characters"`
	AverageChunkSize int      `json:"average_chunk_size"`
}
