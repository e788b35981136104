package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/illusthaey/savinghaey/internal/core/domain"
	"github.com/illusthaey/savinghaey/internal/logger"
)

// mimeTypes maps supported extensions to their stored MIME type.
var mimeTypes = map[string]string{
	".pdf": "application/pdf",
	".txt": "text/plain",
	".md":  "text/markdown",
}

// AddFiles ingests the given files into the corpus and returns the
// number of successfully ingested documents. Each file is an isolated
// unit of work: a failing file raises an alert and the remaining files
// still run. The embedding runtime is loaded on demand.
func (e *Engine) AddFiles(ctx context.Context, paths []string) (int, error) {
	if len(paths) == 0 {
		return 0, nil
	}
	if err := e.beginTask(); err != nil {
		return 0, err
	}
	defer e.endTask()

	if err := e.LoadEmbedder(ctx); err != nil {
		return 0, err
	}

	logger.Section("Ingest")
	logger.Info("Ingesting %d file(s)", len(paths))

	added := 0
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return added, err
		}
		if err := e.ingestFile(ctx, path, i, len(paths)); err != nil {
			e.alert("%s 처리 실패: %v", filepath.Base(path), err)
			continue
		}
		added++
	}

	e.setProgress(1)
	e.setStatus("문서 %d개 추가됨", added)
	return added, nil
}

// ingestFile runs the full pipeline for one file: extract, chunk,
// embed, then commit to memory and store. The commit is atomic from the
// caller's point of view: on a storage failure the in-memory state is
// rolled back to exclude the file entirely.
func (e *Engine) ingestFile(ctx context.Context, path string, fileIndex, fileCount int) error {
	name := filepath.Base(path)
	base := float64(fileIndex) / float64(fileCount)
	span := 1.0 / float64(fileCount)

	e.setStatus("읽는 중: %s", name)
	e.setProgress(base)

	extractor, err := e.extractors.ForPath(path)
	if err != nil {
		return err
	}
	pages, err := extractor.Extract(ctx, path)
	if err != nil {
		return err
	}

	var size int64
	if info, statErr := os.Stat(path); statErr == nil {
		size = info.Size()
	}

	doc := domain.Document{
		ID:        uuid.NewString(),
		Name:      name,
		MimeType:  mimeTypes[strings.ToLower(filepath.Ext(path))],
		SizeBytes: size,
		AddedAt:   time.Now().UTC(),
	}

	var chunks []domain.Chunk
	for _, page := range pages {
		chunks = append(chunks, e.chunker.ChunkPage(doc.ID, doc.Name, page.Page, page.Text)...)
	}
	logger.Debug("Extracted %s: %d page(s), %d chunk(s)", name, len(pages), len(chunks))

	e.setStatus("임베딩 계산 중: %s", name)
	for start := 0; start < len(chunks); start += EmbedBatchSize {
		end := start + EmbedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, 0, end-start)
		for _, chunk := range chunks[start:end] {
			texts = append(texts, chunk.Text)
		}

		vectors, err := e.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return err
		}
		for j, vector := range vectors {
			chunks[start+j].Embedding = vector
		}
		e.setProgress(base + span*float64(end)/float64(len(chunks)))
	}

	// Memory first, then store; roll back memory if the store refuses.
	e.mu.Lock()
	docsLen, chunksLen := len(e.docs), len(e.chunks)
	e.docs = append(e.docs, doc)
	e.chunks = append(e.chunks, chunks...)
	e.mu.Unlock()

	rollback := func() {
		e.mu.Lock()
		e.docs = e.docs[:docsLen]
		e.chunks = e.chunks[:chunksLen]
		e.mu.Unlock()
	}

	if err := e.store.PutDocuments(ctx, []domain.Document{doc}); err != nil {
		rollback()
		return fmt.Errorf("persisting document: %w", err)
	}
	if len(chunks) > 0 {
		if err := e.store.PutChunks(ctx, chunks); err != nil {
			rollback()
			return fmt.Errorf("persisting chunks: %w", err)
		}
	}

	e.setProgress(base + span)
	e.emit(domain.DocumentsChanged{})
	return nil
}
