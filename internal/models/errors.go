package models

import "errors"

// Core errors, boundary layers map these onto user-correctable vs internal
// failures.
var (
	// ErrUnsupportedFormat indicates a file extension other than .pdf or .txt.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoExtractableText indicates a parseable container with no usable text.
	ErrNoExtractableText = errors.New("no extractable text")

	// ErrNoSections indicates segmentation produced no non-empty sections.
	ErrNoSections = errors.New("no sections found")

	// ErrNoChunks indicates no valid chunks were available for indexing.
	ErrNoChunks = errors.New("no valid chunks")

	// ErrIndexNotBuilt indicates a query arrived before any document was
	// processed, distinct from a built index returning no results.
	ErrIndexNotBuilt = errors.New("vector index not built")

	// ErrNoDocument indicates no document chunk set is currently loaded.
	ErrNoDocument = errors.New("no document processed")

	// ErrEmptyInput indicates a required request field was empty.
	ErrEmptyInput = errors.New("empty input")

	// ErrModelUnavailable indicates the generative service is not configured
	// or failed after all retries.
	ErrModelUnavailable = errors.New("model unavailable")
)
