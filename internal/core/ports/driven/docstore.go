package driven

import (
	"context"

	"github.com/illusthaey/savinghaey/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite, two collections keyed by id.
//
// Reads return records in insertion order; retrieval tie-breaks depend
// on that ordering being stable across restarts.
type DocumentStore interface {
	// PutDocuments stores or updates documents by id.
	// Atomic: within one transaction either every record becomes
	// visible or none does.
	PutDocuments(ctx context.Context, docs []domain.Document) error

	// PutChunks stores or updates chunks by id, embeddings included.
	// Atomic within one transaction, like PutDocuments.
	PutChunks(ctx context.Context, chunks []domain.Chunk) error

	// Documents returns every document in insertion order.
	// An empty store yields an empty slice.
	Documents(ctx context.Context) ([]domain.Document, error)

	// Chunks returns every chunk in insertion order, embeddings included.
	Chunks(ctx context.Context) ([]domain.Chunk, error)

	// DeleteAllDocuments empties the documents collection in its own
	// transaction.
	DeleteAllDocuments(ctx context.Context) error

	// DeleteAllChunks empties the chunks collection in its own
	// transaction.
	DeleteAllChunks(ctx context.Context) error

	// Close releases the underlying database handle.
	Close() error
}
