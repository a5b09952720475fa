// Package extractor normalizes PDF and TXT input into plain text.
package extractor

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"

	"document-mentor/internal/models"
)

// Extract reads the source from the start and returns its plain text.
// Only .pdf and .txt are supported; any other extension fails before parsing.
func Extract(r io.ReadSeeker, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return extractPDF(r)
	case ".txt":
		return extractTXT(r)
	default:
		return "", fmt.Errorf("%w: %q (only PDF and TXT files are supported)", models.ErrUnsupportedFormat, ext)
	}
}

func extractPDF(r io.ReadSeeker) (string, error) {
	data, err := readAll(r)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: PDF file is empty", models.ErrNoExtractableText)
	}

	reader, err := openPDF(data)
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("%w: PDF has no pages", models.ErrNoExtractableText)
	}

	var parts []string
	for i := 1; i <= numPages; i++ {
		pageText, err := extractPageText(reader, i)
		if err != nil {
			log.Warn().Err(err).Int("page", i).Msg("Failed to extract text from page")
			continue
		}
		if strings.TrimSpace(pageText) != "" {
			parts = append(parts, pageText)
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("%w: no extractable text found in PDF", models.ErrNoExtractableText)
	}

	text := strings.Join(parts, "\n")
	log.Info().Int("chars", len(text)).Msg("Extracted text from PDF")
	return text, nil
}

// openPDF contains the parser panic seen on some malformed files.
func openPDF(data []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panicked: %v", r)
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

// extractPageText isolates per-page extraction so a malformed page cannot
// take down the whole document.
func extractPageText(reader *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page extraction panicked: %v", r)
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d is null", num)
	}
	return page.GetPlainText(nil)
}

func extractTXT(r io.ReadSeeker) (string, error) {
	data, err := readAll(r)
	if err != nil {
		return "", err
	}

	text := string(data)
	if !utf8.Valid(data) {
		// Latin-1 maps every byte to a rune, so this decode cannot fail.
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("failed to decode text: %w", err)
		}
		text = string(decoded)
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: TXT file is empty or contains no readable text", models.ErrNoExtractableText)
	}

	log.Info().Int("chars", len(text)).Msg("Extracted text from TXT")
	return text, nil
}

func readAll(r io.ReadSeeker) ([]byte, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind input: %w", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}
