package domain

import (
	"fmt"
	"time"
)

// Document represents an ingested file. It is created on successful
// ingestion and removed only by a full clear or an import.
type Document struct {
	// ID is the unique identifier for the document.
	ID string `json:"id"`

	// Name is the human-readable display name (the base filename).
	Name string `json:"name"`

	// MimeType is the detected media type of the source file.
	MimeType string `json:"type"`

	// SizeBytes is the size of the source file in bytes.
	SizeBytes int64 `json:"size"`

	// AddedAt is when the document was ingested.
	AddedAt time.Time `json:"addedAt"`
}

// Chunk represents a retrievable unit of normalised text.
// Documents are split into overlapping chunks for granular retrieval.
type Chunk struct {
	// ID is the deterministic composite identifier
	// "{docID}|p{page}|c{ordinal}".
	ID string `json:"id"`

	// DocID links to the parent Document.
	DocID string `json:"docId"`

	// DocName is the parent document's display name, denormalised so
	// retrieval results render without a document lookup.
	DocName string `json:"docName"`

	// Page is the 1-based source page for PDFs, 1 for plain text.
	Page int `json:"page"`

	// Text is the normalised chunk text, at least 30 non-whitespace
	// characters long.
	Text string `json:"text"`

	// Embedding is the unit-norm vector representation, or nil when the
	// chunk has not been indexed yet (for example after an import).
	// Embeddings never travel with the JSON form; they are re-derivable
	// from Text.
	Embedding []float32 `json:"-"`
}

// ChunkID builds the deterministic chunk identifier for a document page
// window. The ordinal is 0-based per page, counting kept windows in
// emission order.
func ChunkID(docID string, page, ordinal int) string {
	return fmt.Sprintf("%s|p%d|c%d", docID, page, ordinal)
}

// PageText is one page of extracted document text, before chunking.
type PageText struct {
	// Page is the 1-based page number.
	Page int

	// Text is the extracted text for the page.
	Text string
}
