// Package pdf extracts per-page text from PDF files.
package pdf

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/illusthaey/savinghaey/internal/chunker"
	"github.com/illusthaey/savinghaey/internal/core/domain"
	"github.com/illusthaey/savinghaey/internal/core/ports/driven"
	"github.com/illusthaey/savinghaey/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor reads PDF files page by page.
type Extractor struct{}

// New creates a PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the handled file extensions.
func (e *Extractor) Extensions() []string {
	return []string{".pdf"}
}

// Extract returns the normalised text of every extractable page, keeping
// 1-based page numbers. Pages that fail to parse are skipped with a
// warning; a document where no page yields text fails with
// domain.ErrExtract so the ingestion pipeline can surface it per file.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.PageText, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", domain.ErrExtract, path, err)
	}
	defer file.Close() //nolint:errcheck

	numPages := reader.NumPage()
	pages := make([]domain.PageText, 0, numPages)

	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := extractPage(reader, i)
		if err != nil {
			logger.Warn("Skipping page %d of %s: %v", i, path, err)
			continue
		}

		text = chunker.Normalize(text)
		if text == "" {
			continue
		}

		pages = append(pages, domain.PageText{Page: i, Text: text})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no extractable text in %s", domain.ErrExtract, path)
	}

	return pages, nil
}

// extractPage pulls the plain text of one page, recovering from parser
// panics, which the underlying library raises on some malformed files.
func extractPage(reader *pdf.Reader, pageNum int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page parser panic: %v", r)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d is empty", pageNum)
	}

	return page.GetPlainText(nil)
}
