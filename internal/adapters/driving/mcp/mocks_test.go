package mcp

import (
	"context"
	"io"

	"github.com/illusthaey/savinghaey/internal/core/domain"
	"github.com/illusthaey/savinghaey/internal/core/ports/driven"
)

// mockEngine is a mock implementation of driving.Engine. Ask records
// the question and appends a scripted transcript pair.
type mockEngine struct {
	generatorReady bool
	askErr         error
	loadErr        error
	transcript     []domain.Message

	askedQuestion string
	askedOpts     domain.AskOptions
	loadedModel   string
}

func (m *mockEngine) Ask(_ context.Context, question string, opts domain.AskOptions) error {
	m.askedQuestion = question
	m.askedOpts = opts
	return m.askErr
}

func (m *mockEngine) LoadGenerator(_ context.Context, modelID string) error {
	if m.loadErr != nil {
		return m.loadErr
	}
	m.loadedModel = modelID
	m.generatorReady = true
	return nil
}

func (m *mockEngine) AddFiles(context.Context, []string) (int, error) { return 0, nil }
func (m *mockEngine) LoadEmbedder(context.Context) error { return nil }
func (m *mockEngine) ClearAll(context.Context) error { return nil }
func (m *mockEngine) Export(context.Context, io.Writer) error { return nil }
func (m *mockEngine) Import(context.Context, io.Reader) error { return nil }
func (m *mockEngine) ReindexAll(context.Context) error { return nil }
func (m *mockEngine) Documents() []domain.Document { return nil }
func (m *mockEngine) ChunkCount() int { return 0 }
func (m *mockEngine) EmbedderReady() bool { return true }
func (m *mockEngine) GeneratorReady() bool { return m.generatorReady }
func (m *mockEngine) Status() string { return "" }
func (m *mockEngine) Progress() float64 { return 0 }
func (m *mockEngine) Transcript() []domain.Message { return m.transcript }
func (m *mockEngine) Subscribe(func(domain.Event)) func() { return func() {} }

// mockRetriever is a mock implementation of Retriever.
type mockRetriever struct {
	hits []driven.Hit
	err  error

	query string
	k     int
}

func (m *mockRetriever) Retrieve(_ context.Context, query string, k int) ([]driven.Hit, error) {
	m.query = query
	m.k = k
	return m.hits, m.err
}
