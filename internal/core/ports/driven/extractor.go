package driven

import (
	"context"

	"github.com/illusthaey/savinghaey/internal/core/domain"
)

// Extractor extracts per-page text from one family of source files.
// Each extractor handles specific file extensions (e.g., PDF, plain text).
type Extractor interface {
	// Extensions returns the lowercased extensions this extractor
	// handles, dot included (".pdf", ".txt").
	Extensions() []string

	// Extract reads the file and returns its pages in order, already
	// normalised. Failures wrap domain.ErrExtract; the ingestion
	// pipeline surfaces them per file and continues with the next file.
	Extract(ctx context.Context, path string) ([]domain.PageText, error)
}

// ExtractorRegistry selects the extractor for a file by its extension.
type ExtractorRegistry interface {
	// ForPath returns the extractor responsible for the file.
	// Returns domain.ErrUnsupportedType when no extractor handles the
	// file's extension.
	ForPath(path string) (Extractor, error)

	// Register adds an extractor to the registry.
	Register(e Extractor)

	// SupportedExtensions returns all handled extensions, sorted.
	SupportedExtensions() []string
}
