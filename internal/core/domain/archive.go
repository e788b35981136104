package domain

import (
	"fmt"
	"time"
)

// ArchiveVersion is the only archive format version Import understands.
// There is no migration path for unknown versions; they are rejected.
const ArchiveVersion = 1

// Archive is the portable JSON snapshot of the corpus produced by Export
// and consumed by Import. Chunks travel without embeddings: vectors are
// re-derivable from text and would bloat the payload.
type Archive struct {
	// Version is the archive format version.
	Version int `json:"version"`

	// ExportedAt is when the archive was produced, in UTC.
	ExportedAt time.Time `json:"exportedAt"`

	// Docs are all documents of the corpus.
	Docs []Document `json:"docs"`

	// Chunks are all chunks of the corpus, embeddings stripped.
	Chunks []Chunk `json:"chunks"`
}

// Validate checks that the archive is importable. Both arrays must be
// present (empty is fine) and the version must be known. Failures wrap
// ErrImportFormat.
func (a *Archive) Validate() error {
	if a.Version != ArchiveVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrImportFormat, a.Version)
	}
	if a.Docs == nil {
		return fmt.Errorf("%w: missing docs array", ErrImportFormat)
	}
	if a.Chunks == nil {
		return fmt.Errorf("%w: missing chunks array", ErrImportFormat)
	}
	return nil
}
