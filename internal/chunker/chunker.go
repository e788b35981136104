// Package chunker canonicalises extracted text and splits it into
// fixed-size overlapping windows, the unit of retrieval.
package chunker

import (
	"unicode"

	"github.com/illusthaey/savinghaey/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1200

// DefaultOverlap is the default number of overlapping characters
// between consecutive chunks.
const DefaultOverlap = 200

// MinChunkRunes is the minimum number of non-whitespace characters a
// window must contain to become a chunk. Shorter fragments carry too
// little meaning to retrieve.
const MinChunkRunes = 30

// Chunker splits normalised text into fixed-size overlapping windows.
// Windows are measured in runes so multilingual text never splits
// mid-character.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkSize returns the configured window size in characters.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured window overlap in characters.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Windows splits normalised text into overlapping windows. Window k
// spans [start, start+size) clamped to the text end; the next window
// starts at end-overlap, so consecutive windows share exactly overlap
// characters and the last window may be shorter. Windows with fewer
// than MinChunkRunes non-whitespace characters are dropped.
func (c *Chunker) Windows(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)

	estimated := total/(c.chunkSize-c.overlap) + 1
	windows := make([]string, 0, estimated)

	start := 0
	for {
		end := start + c.chunkSize
		if end > total {
			end = total
		}

		window := runes[start:end]
		if countNonWhitespace(window) >= MinChunkRunes {
			windows = append(windows, string(window))
		}

		if end >= total {
			break
		}

		start = end - c.overlap
		if start < 0 {
			start = 0
		}
	}

	return windows
}

// ChunkPage splits one already-normalised page of a document into
// chunks. Ordinals are 0-based per page, counting kept windows in
// emission order, so chunk ids stay deterministic for a given text.
func (c *Chunker) ChunkPage(docID, docName string, page int, text string) []domain.Chunk {
	windows := c.Windows(text)
	if len(windows) == 0 {
		return nil
	}

	chunks := make([]domain.Chunk, 0, len(windows))
	for ordinal, window := range windows {
		chunks = append(chunks, domain.Chunk{
			ID:      domain.ChunkID(docID, page, ordinal),
			DocID:   docID,
			DocName: docName,
			Page:    page,
			Text:    window,
		})
	}

	return chunks
}

func countNonWhitespace(runes []rune) int {
	count := 0
	for _, r := range runes {
		if !unicode.IsSpace(r) {
			count++
		}
	}
	return count
}
