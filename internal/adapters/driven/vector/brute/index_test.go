package brute

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illusthaey/savinghaey/internal/core/domain"
)

// axisChunk builds a chunk whose embedding is the unit vector e_axis in
// the given dimension.
func axisChunk(ordinal, axis, dim int) domain.Chunk {
	embedding := make([]float32, dim)
	embedding[axis] = 1
	return domain.Chunk{
		ID:        domain.ChunkID("doc", 1, ordinal),
		DocID:     "doc",
		DocName:   "doc.txt",
		Page:      1,
		Text:      fmt.Sprintf("chunk %d", ordinal),
		Embedding: embedding,
	}
}

func TestTopK_AxisVectors(t *testing.T) {
	const dim = 10
	chunks := make([]domain.Chunk, 0, dim)
	for i := 0; i < dim; i++ {
		chunks = append(chunks, axisChunk(i, i, dim))
	}

	query := make([]float32, dim)
	query[3] = 1 // q = e_3

	hits := New().TopK(query, chunks, 6)
	require.Len(t, hits, 6)

	assert.Equal(t, chunks[3].ID, hits[0].Chunk.ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)

	// Orthogonal chunks all score zero and keep insertion order.
	for i := 1; i < len(hits); i++ {
		assert.InDelta(t, 0.0, hits[i].Score, 1e-6)
	}
	assert.Equal(t, chunks[0].ID, hits[1].Chunk.ID)
	assert.Equal(t, chunks[1].ID, hits[2].Chunk.ID)
}

func TestTopK_SortedDescending(t *testing.T) {
	chunks := []domain.Chunk{
		{ID: "low", Embedding: []float32{0.1, 0.995}},
		{ID: "high", Embedding: []float32{0.9, 0.436}},
		{ID: "mid", Embedding: []float32{0.5, 0.866}},
	}

	hits := New().TopK([]float32{1, 0}, chunks, 3)
	require.Len(t, hits, 3)
	assert.Equal(t, "high", hits[0].Chunk.ID)
	assert.Equal(t, "mid", hits[1].Chunk.ID)
	assert.Equal(t, "low", hits[2].Chunk.ID)
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
	}
}

func TestTopK_SkipsUnindexedChunks(t *testing.T) {
	chunks := []domain.Chunk{
		{ID: "no-embedding"},
		{ID: "wrong-dimension", Embedding: []float32{1}},
		{ID: "indexed", Embedding: []float32{1, 0}},
	}

	hits := New().TopK([]float32{1, 0}, chunks, 10)
	require.Len(t, hits, 1)
	assert.Equal(t, "indexed", hits[0].Chunk.ID)
}

func TestTopK_TiesKeepInsertionOrder(t *testing.T) {
	chunks := []domain.Chunk{
		{ID: "first", Embedding: []float32{0, 1}},
		{ID: "second", Embedding: []float32{0, 1}},
		{ID: "third", Embedding: []float32{0, 1}},
	}

	hits := New().TopK([]float32{0, 1}, chunks, 3)
	require.Len(t, hits, 3)
	assert.Equal(t, "first", hits[0].Chunk.ID)
	assert.Equal(t, "second", hits[1].Chunk.ID)
	assert.Equal(t, "third", hits[2].Chunk.ID)
}

func TestTopK_Bounds(t *testing.T) {
	chunks := []domain.Chunk{
		{ID: "a", Embedding: []float32{1, 0}},
		{ID: "b", Embedding: []float32{0, 1}},
	}
	idx := New()

	assert.Nil(t, idx.TopK([]float32{1, 0}, chunks, 0))
	assert.Nil(t, idx.TopK([]float32{1, 0}, chunks, -1))
	assert.Nil(t, idx.TopK(nil, chunks, 5))
	assert.Len(t, idx.TopK([]float32{1, 0}, chunks, 5), 2)
	assert.Empty(t, idx.TopK([]float32{1, 0}, nil, 5))
}

func TestTopK_NegativeScoresStillRanked(t *testing.T) {
	chunks := []domain.Chunk{
		{ID: "opposite", Embedding: []float32{-1, 0}},
		{ID: "aligned", Embedding: []float32{1, 0}},
	}

	hits := New().TopK([]float32{1, 0}, chunks, 2)
	require.Len(t, hits, 2)
	assert.Equal(t, "aligned", hits[0].Chunk.ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.Equal(t, "opposite", hits[1].Chunk.ID)
	assert.InDelta(t, -1.0, hits[1].Score, 1e-6)
}
