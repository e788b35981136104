// Package brute provides an exact brute-force implementation of the
// VectorIndex port. Corpora are personal-scale, so a linear scan ranks
// every chunk in well under a millisecond and keeps tie-break semantics
// trivially stable.
package brute

import (
	"sort"

	"github.com/illusthaey/savinghaey/internal/core/domain"
	"github.com/illusthaey/savinghaey/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index ranks chunks against a query vector with an exact scan.
type Index struct{}

// New creates a brute-force vector index.
func New() *Index {
	return &Index{}
}

// TopK returns at most k chunks ranked by dot product against the query,
// descending. Query and stored vectors are unit-norm, so the score equals
// cosine similarity. Chunks without an embedding, or whose embedding does
// not match the query dimension, are skipped silently. Ties keep input
// order.
func (i *Index) TopK(query []float32, chunks []domain.Chunk, k int) []driven.Hit {
	if k <= 0 || len(query) == 0 {
		return nil
	}

	hits := make([]driven.Hit, 0, len(chunks))
	for _, chunk := range chunks {
		if len(chunk.Embedding) != len(query) {
			continue
		}
		hits = append(hits, driven.Hit{
			Chunk: chunk,
			Score: dot(query, chunk.Embedding),
		})
	}

	// Stable keeps insertion order for equal scores.
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits
}

// dot computes the dot product in float64 to limit accumulation error.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
