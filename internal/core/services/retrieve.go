package services

import (
	"context"
	"strings"

	"github.com/illusthaey/savinghaey/internal/core/domain"
	"github.com/illusthaey/savinghaey/internal/core/ports/driven"
)

// Retrieve embeds the query and returns the top-k chunks by cosine
// similarity, without generating anything. Read-only: it does not take
// the task slot or touch the transcript. A non-positive k falls back to
// the engine's configured top-k.
func (e *Engine) Retrieve(ctx context.Context, query string, k int) ([]driven.Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuestion
	}
	if !e.hasIndexedChunk() {
		return nil, domain.ErrNoCorpus
	}
	if err := e.LoadEmbedder(ctx); err != nil {
		return nil, err
	}

	vectors, err := e.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, err
	}

	if k <= 0 {
		k = e.topK
	}
	return e.index.TopK(vectors[0], e.snapshotChunks(), k), nil
}
