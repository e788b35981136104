package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/illusthaey/savinghaey/internal/core/domain"
	"github.com/illusthaey/savinghaey/internal/core/ports/driven"
)

// ==================== DocumentStore ====================

type mockStore struct {
	mu     sync.Mutex
	docs   []domain.Document
	chunks []domain.Chunk

	putDocsErr      error
	putChunksErr    error
	deleteDocsErr   error
	deleteChunksErr error

	putChunksCalls int
}

func newMockStore() *mockStore {
	return &mockStore{}
}

func (s *mockStore) PutDocuments(_ context.Context, docs []domain.Document) error {
	if s.putDocsErr != nil {
		return s.putDocsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		replaced := false
		for i := range s.docs {
			if s.docs[i].ID == doc.ID {
				s.docs[i] = doc
				replaced = true
				break
			}
		}
		if !replaced {
			s.docs = append(s.docs, doc)
		}
	}
	return nil
}

func (s *mockStore) PutChunks(_ context.Context, chunks []domain.Chunk) error {
	if s.putChunksErr != nil {
		return s.putChunksErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putChunksCalls++
	for _, chunk := range chunks {
		replaced := false
		for i := range s.chunks {
			if s.chunks[i].ID == chunk.ID {
				s.chunks[i] = chunk
				replaced = true
				break
			}
		}
		if !replaced {
			s.chunks = append(s.chunks, chunk)
		}
	}
	return nil
}

func (s *mockStore) Documents(_ context.Context) ([]domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := make([]domain.Document, len(s.docs))
	copy(docs, s.docs)
	return docs, nil
}

func (s *mockStore) Chunks(_ context.Context) ([]domain.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chunks := make([]domain.Chunk, len(s.chunks))
	copy(chunks, s.chunks)
	return chunks, nil
}

func (s *mockStore) DeleteAllDocuments(_ context.Context) error {
	if s.deleteDocsErr != nil {
		return s.deleteDocsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = nil
	return nil
}

func (s *mockStore) DeleteAllChunks(_ context.Context) error {
	if s.deleteChunksErr != nil {
		return s.deleteChunksErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	return nil
}

func (s *mockStore) Close() error { return nil }

// ==================== Embedder ====================

type mockEmbedder struct {
	mu      sync.Mutex
	ready   bool
	loadErr error
	embedFn func(texts []string) ([][]float32, error)

	embedCalls int
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{
		// Default: the same unit vector for every text. Tests that care
		// about retrieval geometry install their own embedFn.
		embedFn: func(texts []string) ([][]float32, error) {
			vectors := make([][]float32, len(texts))
			for i := range texts {
				vectors[i] = []float32{1, 0, 0}
			}
			return vectors, nil
		},
	}
}

func (e *mockEmbedder) Load(context.Context) error {
	if e.loadErr != nil {
		return e.loadErr
	}
	e.mu.Lock()
	e.ready = true
	e.mu.Unlock()
	return nil
}

func (e *mockEmbedder) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

func (e *mockEmbedder) State() domain.ModelState {
	if e.Ready() {
		return domain.ModelReady
	}
	return domain.ModelUnloaded
}

func (e *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if !e.Ready() {
		return nil, fmt.Errorf("%w: runtime not loaded", domain.ErrEmbed)
	}
	e.mu.Lock()
	e.embedCalls++
	e.mu.Unlock()
	return e.embedFn(texts)
}

func (e *mockEmbedder) Dimensions() int { return 3 }
func (e *mockEmbedder) ModelName() string { return "mock-embedder" }
func (e *mockEmbedder) Close() error { return nil }

// ==================== Generator ====================

type mockGenerator struct {
	ready    bool
	loadErr  error
	streamFn func(onDelta func(string)) (string, error)

	lastMessages []driven.ChatMessage
	lastOpts     driven.GenerateOptions
}

func newMockGenerator(answer string) *mockGenerator {
	return &mockGenerator{
		ready: true,
		streamFn: func(onDelta func(string)) (string, error) {
			onDelta(answer)
			return answer, nil
		},
	}
}

func (g *mockGenerator) Load(_ context.Context, _ string, onProgress driven.LoadProgressFunc) error {
	if g.loadErr != nil {
		return g.loadErr
	}
	if onProgress != nil {
		onProgress(1, "ready")
	}
	g.ready = true
	return nil
}

func (g *mockGenerator) Ready() bool { return g.ready }

func (g *mockGenerator) State() domain.ModelState {
	if g.ready {
		return domain.ModelReady
	}
	return domain.ModelUnloaded
}

func (g *mockGenerator) Stream(_ context.Context, messages []driven.ChatMessage, opts driven.GenerateOptions, onDelta func(string)) (string, error) {
	g.lastMessages = messages
	g.lastOpts = opts
	return g.streamFn(onDelta)
}

func (g *mockGenerator) ModelName() string { return "mock-generator" }
func (g *mockGenerator) Close() error { return nil }

// ==================== VectorIndex ====================

type mockIndex struct{}

func (mockIndex) TopK(query []float32, chunks []domain.Chunk, k int) []driven.Hit {
	var hits []driven.Hit
	for _, chunk := range chunks {
		if len(chunk.Embedding) != len(query) {
			continue
		}
		var score float64
		for i := range query {
			score += float64(query[i]) * float64(chunk.Embedding[i])
		}
		hits = append(hits, driven.Hit{Chunk: chunk, Score: score})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits
}

// ==================== Extractors ====================

type mockExtractor struct {
	pages      []domain.PageText
	extractErr error
}

func (e *mockExtractor) Extensions() []string { return []string{".txt"} }

func (e *mockExtractor) Extract(context.Context, string) ([]domain.PageText, error) {
	if e.extractErr != nil {
		return nil, e.extractErr
	}
	return e.pages, nil
}

// mockRegistry returns one extractor per path, keyed exactly.
type mockRegistry struct {
	byPath map[string]driven.Extractor
}

func newMockRegistry() *mockRegistry {
	return &mockRegistry{byPath: map[string]driven.Extractor{}}
}

func (r *mockRegistry) ForPath(path string) (driven.Extractor, error) {
	if e, ok := r.byPath[path]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, path)
}

func (r *mockRegistry) Register(driven.Extractor) {}

func (r *mockRegistry) SupportedExtensions() []string { return []string{".txt"} }

// ==================== Event recorder ====================

type eventRecorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *eventRecorder) record(event domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) all() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]domain.Event, len(r.events))
	copy(events, r.events)
	return events
}

func (r *eventRecorder) countOf(match func(domain.Event) bool) int {
	n := 0
	for _, event := range r.all() {
		if match(event) {
			n++
		}
	}
	return n
}
