package driven

import "github.com/illusthaey/savinghaey/internal/core/domain"

// VectorIndex ranks the in-memory corpus against a query vector.
// Deliberately a brute-force exact scan: corpora are personal-scale,
// and an approximate structure would change tie-break semantics.
type VectorIndex interface {
	// TopK returns at most k chunks ranked by dot product against the
	// query, descending. Query and stored vectors are unit-norm, so the
	// score equals cosine similarity in [-1, 1]. Chunks without an
	// embedding (or with a mismatched dimension) are skipped silently.
	// Ties keep the input order, which follows ingestion order.
	TopK(query []float32, chunks []domain.Chunk, k int) []Hit
}

// Hit represents a retrieval result.
type Hit struct {
	// Chunk is the matched chunk.
	Chunk domain.Chunk

	// Score is the cosine similarity against the query.
	Score float64
}
