// Package segmenter splits normalized document text into named logical
// sections using heuristic header matching.
package segmenter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"document-mentor/internal/models"
)

// numericPrefix matches optional leading numbering like "1." or "1.2 ".
var numericPrefix = regexp.MustCompile(`^\d+(\.\d+)*\.?\s*`)

// canonical maps the lowercased form of each recognized header to its
// canonical name.
var canonical = func() map[string]string {
	m := make(map[string]string, len(models.SectionHeaders))
	for _, h := range models.SectionHeaders {
		m[strings.ToLower(h)] = h
	}
	return m
}()

// Split scans text line by line and groups it into sections delimited by
// canonical headers. Text before the first header lands in the default
// "Main Content" section. The returned slice holds section names in the
// order they were encountered; whitespace-only sections are dropped.
func Split(text string) ([]string, map[string]string, error) {
	sections := make(map[string]string)
	var order []string

	current := models.DefaultSection
	var buffer []string

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		content := strings.TrimSpace(strings.Join(buffer, "\n"))
		buffer = nil
		if content == "" {
			return
		}
		if prev, ok := sections[current]; ok {
			// Repeated header: keep earlier content instead of overwriting.
			sections[current] = prev + "\n" + content
			return
		}
		sections[current] = content
		order = append(order, current)
	}

	for _, line := range strings.Split(text, "\n") {
		clean := strings.TrimSpace(line)
		if clean == "" {
			continue
		}
		if name, ok := matchHeader(clean); ok {
			flush()
			current = name
			continue
		}
		buffer = append(buffer, line)
	}
	flush()

	if len(sections) == 0 {
		return nil, nil, fmt.Errorf("%w in document", models.ErrNoSections)
	}

	log.Info().Strs("sections", order).Msg("Found sections")
	return order, sections, nil
}

// matchHeader reports whether a trimmed line is exactly a canonical header,
// case-insensitively and ignoring a numeric prefix.
func matchHeader(line string) (string, bool) {
	stripped := numericPrefix.ReplaceAllString(line, "")
	name, ok := canonical[strings.ToLower(strings.TrimSpace(stripped))]
	return name, ok
}
