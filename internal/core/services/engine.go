package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/illusthaey/savinghaey/internal/chunker"
	"github.com/illusthaey/savinghaey/internal/core/domain"
	"github.com/illusthaey/savinghaey/internal/core/ports/driven"
	"github.com/illusthaey/savinghaey/internal/core/ports/driving"
	"github.com/illusthaey/savinghaey/internal/logger"
)

// Ensure Engine implements the interfaces.
var (
	_ driving.Engine          = (*Engine)(nil)
	_ driven.PromptStoreAware = (*Engine)(nil)
)

// Default engine tuning values.
const (
	// DefaultTopK is the number of chunks retrieved per question.
	DefaultTopK = 6

	// EmbedBatchSize is the number of texts submitted per embedding
	// call during ingestion and re-indexing.
	EmbedBatchSize = 8
)

// Options tunes the engine.
type Options struct {
	// TopK is the number of chunks retrieved per question (default 6).
	TopK int

	// MaxTokens bounds a generated answer; 0 leaves the generator's
	// default in place.
	MaxTokens int
}

// Engine orchestrates ingestion, retrieval and grounded answering over
// one corpus. Commands run on a single task actor: exactly one mutating
// operation executes at a time and a command issued while another runs
// fails with domain.ErrBusy.
type Engine struct {
	store      driven.DocumentStore
	embedder   driven.Embedder
	generator  driven.Generator
	index      driven.VectorIndex
	extractors driven.ExtractorRegistry
	chunker    *chunker.Chunker
	prompts    driven.PromptStore

	topK      int
	maxTokens int

	// task serialises mutating operations; TryLock failure maps to
	// domain.ErrBusy.
	task sync.Mutex

	// mu guards the observable state below.
	mu         sync.RWMutex
	docs       []domain.Document
	chunks     []domain.Chunk
	transcript []domain.Message
	status     string
	progress   float64

	// subMu guards the observer list. Events are delivered
	// synchronously in emission order, outside the state lock.
	subMu   sync.Mutex
	subs    map[int]func(domain.Event)
	nextSub int
}

// NewEngine creates an engine over the given ports. No I/O happens
// until LoadFromStore or a command runs.
func NewEngine(
	store driven.DocumentStore,
	embedder driven.Embedder,
	generator driven.Generator,
	index driven.VectorIndex,
	extractors driven.ExtractorRegistry,
	ck *chunker.Chunker,
	opts Options,
) *Engine {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if ck == nil {
		ck = chunker.New()
	}

	return &Engine{
		store:      store,
		embedder:   embedder,
		generator:  generator,
		index:      index,
		extractors: extractors,
		chunker:    ck,
		topK:       opts.TopK,
		maxTokens:  opts.MaxTokens,
		status:     "준비됨",
		subs:       make(map[int]func(domain.Event)),
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// Without it the engine uses its embedded default prompts.
func (e *Engine) SetPromptStore(store driven.PromptStore) {
	e.prompts = store
}

// LoadFromStore replaces the in-memory corpus with the persisted one.
// An empty database yields an empty corpus, not an error. Called once
// at startup by the wiring layer.
func (e *Engine) LoadFromStore(ctx context.Context) error {
	docs, err := e.store.Documents(ctx)
	if err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}
	chunks, err := e.store.Chunks(ctx)
	if err != nil {
		return fmt.Errorf("loading chunks: %w", err)
	}

	e.mu.Lock()
	e.docs = docs
	e.chunks = chunks
	e.mu.Unlock()

	logger.Info("Corpus loaded: %d documents, %d chunks", len(docs), len(chunks))
	e.emit(domain.DocumentsChanged{})
	return nil
}

// beginTask claims the single task slot or fails with domain.ErrBusy.
func (e *Engine) beginTask() error {
	if !e.task.TryLock() {
		return domain.ErrBusy
	}
	return nil
}

// endTask releases the task slot.
func (e *Engine) endTask() {
	e.task.Unlock()
}

// ==================== Projections ====================

// Documents returns the ingested documents in insertion order.
func (e *Engine) Documents() []domain.Document {
	e.mu.RLock()
	defer e.mu.RUnlock()

	docs := make([]domain.Document, len(e.docs))
	copy(docs, e.docs)
	return docs
}

// ChunkCount returns the number of chunks in the corpus.
func (e *Engine) ChunkCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.chunks)
}

// EmbedderReady reports whether the embedding runtime is loaded.
func (e *Engine) EmbedderReady() bool {
	return e.embedder.Ready()
}

// GeneratorReady reports whether the generation runtime is loaded.
func (e *Engine) GeneratorReady() bool {
	return e.generator.Ready()
}

// Status returns the current human-readable status line.
func (e *Engine) Status() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

// Progress returns the current operation progress in [0, 1].
func (e *Engine) Progress() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.progress
}

// Transcript returns a copy of the question/answer transcript.
func (e *Engine) Transcript() []domain.Message {
	e.mu.RLock()
	defer e.mu.RUnlock()

	transcript := make([]domain.Message, len(e.transcript))
	copy(transcript, e.transcript)
	return transcript
}

// ==================== Events ====================

// Subscribe registers an observer for engine events. The returned
// function cancels the subscription.
func (e *Engine) Subscribe(fn func(domain.Event)) (cancel func()) {
	e.subMu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.subMu.Unlock()

	return func() {
		e.subMu.Lock()
		delete(e.subs, id)
		e.subMu.Unlock()
	}
}

// emit delivers an event to every subscriber, in subscription order.
func (e *Engine) emit(event domain.Event) {
	e.subMu.Lock()
	fns := make([]func(domain.Event), 0, len(e.subs))
	for id := 0; id < e.nextSub; id++ {
		if fn, ok := e.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	e.subMu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

// setStatus updates the status line and notifies observers.
func (e *Engine) setStatus(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	e.mu.Lock()
	e.status = text
	e.mu.Unlock()
	e.emit(domain.StatusChanged{Text: text})
}

// setProgress updates the progress fraction and notifies observers.
func (e *Engine) setProgress(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	e.mu.Lock()
	e.progress = fraction
	e.mu.Unlock()
	e.emit(domain.ProgressChanged{Fraction: fraction})
}

// alert raises a user-visible, non-fatal problem.
func (e *Engine) alert(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	logger.Warn("%s", text)
	e.emit(domain.AlertRaised{Text: text})
}

// ==================== Model loading ====================

// LoadEmbedder warms up the embedding runtime ahead of time.
func (e *Engine) LoadEmbedder(ctx context.Context) error {
	if e.embedder.Ready() {
		return nil
	}

	e.setStatus("임베딩 모델 로딩 중...")
	if err := e.embedder.Load(ctx); err != nil {
		e.setStatus("임베딩 모델 로딩 실패")
		return err
	}

	e.setStatus("임베딩 모델 준비됨 (%s)", e.embedder.ModelName())
	return nil
}

// LoadGenerator loads the generation runtime. An empty modelID selects
// the configured default model.
func (e *Engine) LoadGenerator(ctx context.Context, modelID string) error {
	if e.generator.Ready() {
		return nil
	}

	e.setStatus("생성 모델 로딩 중...")
	err := e.generator.Load(ctx, modelID, func(fraction float64, text string) {
		e.setProgress(fraction)
		if text != "" {
			e.setStatus("생성 모델 로딩 중: %s", text)
		}
	})
	if err != nil {
		e.setStatus("생성 모델을 사용할 수 없습니다")
		return err
	}

	e.setStatus("생성 모델 준비됨 (%s)", e.generator.ModelName())
	return nil
}

// ==================== Clearing ====================

// ClearAll removes every document, chunk and transcript entry. The two
// collections are emptied in separate transactions; on partial failure
// the in-memory state is reloaded from the store so it reflects what
// actually succeeded.
func (e *Engine) ClearAll(ctx context.Context) error {
	if err := e.beginTask(); err != nil {
		return err
	}
	defer e.endTask()

	// Chunks first: a chunk must never outlive its document.
	if err := e.store.DeleteAllChunks(ctx); err != nil {
		return err
	}
	if err := e.store.DeleteAllDocuments(ctx); err != nil {
		// Chunks are gone but documents remain; resync memory.
		if reloadErr := e.LoadFromStore(ctx); reloadErr != nil {
			logger.Warn("Resync after partial clear failed: %v", reloadErr)
		}
		return err
	}

	e.mu.Lock()
	e.docs = nil
	e.chunks = nil
	e.transcript = nil
	e.mu.Unlock()

	e.emit(domain.DocumentsChanged{})
	e.setProgress(0)
	e.setStatus("모든 자료가 삭제되었습니다")
	return nil
}

// hasIndexedChunk reports whether at least one chunk carries an
// embedding, i.e. retrieval has something to rank.
func (e *Engine) hasIndexedChunk() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for i := range e.chunks {
		if len(e.chunks[i].Embedding) > 0 {
			return true
		}
	}
	return false
}

// snapshotChunks returns a shallow copy of the chunk list. The copy
// pins the retrieval state of one question even if ingestion runs
// later; chunk values share embedding slices, which are replaced, not
// mutated.
func (e *Engine) snapshotChunks() []domain.Chunk {
	e.mu.RLock()
	defer e.mu.RUnlock()

	chunks := make([]domain.Chunk, len(e.chunks))
	copy(chunks, e.chunks)
	return chunks
}
