package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/illusthaey/savinghaey/internal/core/domain"
	"github.com/illusthaey/savinghaey/internal/logger"
)

// reindexFloor is the progress fraction reported before the first
// re-embedding batch completes; the remaining span is divided evenly
// across batches.
const reindexFloor = 0.05

// Export writes the corpus as a portable JSON archive. Embeddings are
// stripped; Import re-derives them via ReindexAll.
func (e *Engine) Export(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.RLock()
	archive := domain.Archive{
		Version:    domain.ArchiveVersion,
		ExportedAt: time.Now().UTC(),
		Docs:       make([]domain.Document, len(e.docs)),
		Chunks:     make([]domain.Chunk, len(e.chunks)),
	}
	copy(archive.Docs, e.docs)
	copy(archive.Chunks, e.chunks)
	e.mu.RUnlock()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&archive); err != nil {
		return fmt.Errorf("encoding archive: %w", err)
	}

	logger.Info("Exported %d documents, %d chunks", len(archive.Docs), len(archive.Chunks))
	return nil
}

// Import replaces the corpus with the archive read from r. The archive
// is fully decoded and validated before anything is touched: a malformed
// archive leaves the existing corpus intact. Imported chunks carry no
// embeddings, so answering requires a ReindexAll afterwards.
func (e *Engine) Import(ctx context.Context, r io.Reader) error {
	if err := e.beginTask(); err != nil {
		return err
	}
	defer e.endTask()

	var archive domain.Archive
	if err := json.NewDecoder(r).Decode(&archive); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrImportFormat, err)
	}
	if err := archive.Validate(); err != nil {
		return err
	}

	if err := e.store.DeleteAllChunks(ctx); err != nil {
		return err
	}
	if err := e.store.DeleteAllDocuments(ctx); err != nil {
		return err
	}
	if len(archive.Docs) > 0 {
		if err := e.store.PutDocuments(ctx, archive.Docs); err != nil {
			return err
		}
	}
	if len(archive.Chunks) > 0 {
		if err := e.store.PutChunks(ctx, archive.Chunks); err != nil {
			return err
		}
	}

	e.mu.Lock()
	e.docs = archive.Docs
	e.chunks = archive.Chunks
	e.mu.Unlock()

	logger.Info("Imported %d documents, %d chunks", len(archive.Docs), len(archive.Chunks))
	e.emit(domain.DocumentsChanged{})
	e.setStatus("가져오기 완료: 재인덱싱이 필요합니다")
	return nil
}

// ReindexAll re-embeds every chunk from its text and persists the
// updated vectors batch by batch. An empty corpus is a no-op.
func (e *Engine) ReindexAll(ctx context.Context) error {
	if err := e.beginTask(); err != nil {
		return err
	}
	defer e.endTask()

	total := e.ChunkCount()
	if total == 0 {
		e.setProgress(1)
		e.setStatus("재인덱싱할 자료가 없습니다")
		return nil
	}

	if err := e.LoadEmbedder(ctx); err != nil {
		return err
	}

	logger.Section("Reindex")
	logger.Info("Re-indexing %d chunk(s)", total)
	e.setStatus("재인덱싱 중...")
	e.setProgress(reindexFloor)

	for start := 0; start < total; start += EmbedBatchSize {
		end := start + EmbedBatchSize
		if end > total {
			end = total
		}

		batch := make([]domain.Chunk, end-start)
		e.mu.RLock()
		copy(batch, e.chunks[start:end])
		e.mu.RUnlock()

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Text
		}

		vectors, err := e.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			e.setStatus("재인덱싱 실패")
			return err
		}
		for i, vector := range vectors {
			batch[i].Embedding = vector
		}

		if err := e.store.PutChunks(ctx, batch); err != nil {
			e.setStatus("재인덱싱 실패")
			return err
		}

		e.mu.Lock()
		for i := range batch {
			e.chunks[start+i].Embedding = batch[i].Embedding
		}
		e.mu.Unlock()

		e.setProgress(reindexFloor + (1-reindexFloor)*float64(end)/float64(total))
	}

	e.setProgress(1)
	e.setStatus("재인덱싱 완료: %d개 청크", total)
	return nil
}
