package driving

import (
	"context"
	"io"

	"github.com/illusthaey/savinghaey/internal/core/domain"
)

// Engine is the application surface consumed by the CLI, the chat TUI
// and the MCP server. One engine instance drives one corpus.
//
// Commands run on a single task actor: exactly one of AddFiles, Ask,
// ClearAll, Import or ReindexAll executes at a time, and a command
// issued while another runs fails with domain.ErrBusy. Views observe
// state through the projections and the event subscription instead of
// reaching into the core.
type Engine interface {
	// AddFiles ingests the given files sequentially and returns how many
	// documents were created. Per-file failures are isolated: they raise
	// alerts and the remaining files continue.
	AddFiles(ctx context.Context, paths []string) (int, error)

	// Ask answers a question grounded on the ingested corpus, streaming
	// the answer into the transcript. Precondition failures
	// (domain.ErrEmptyQuestion, domain.ErrNoCorpus,
	// domain.ErrGeneratorNotReady) surface before the transcript is
	// touched.
	Ask(ctx context.Context, question string, opts domain.AskOptions) error

	// LoadEmbedder warms up the embedding runtime ahead of time.
	// Ingestion and asking also load it on demand.
	LoadEmbedder(ctx context.Context) error

	// LoadGenerator loads the generation runtime. An empty modelID
	// selects the configured default model.
	LoadGenerator(ctx context.Context, modelID string) error

	// ClearAll removes every document, chunk and transcript entry.
	ClearAll(ctx context.Context) error

	// Export writes the corpus archive as JSON, embeddings stripped.
	Export(ctx context.Context, w io.Writer) error

	// Import replaces the corpus with the archive read from r. The
	// imported chunks carry no embeddings until ReindexAll runs.
	Import(ctx context.Context, r io.Reader) error

	// ReindexAll recomputes every chunk embedding from its text.
	ReindexAll(ctx context.Context) error

	// Documents returns the ingested documents in insertion order.
	Documents() []domain.Document

	// ChunkCount returns the number of chunks in the corpus.
	ChunkCount() int

	// EmbedderReady reports whether the embedding runtime is loaded.
	EmbedderReady() bool

	// GeneratorReady reports whether the generation runtime is loaded.
	GeneratorReady() bool

	// Status returns the current human-readable status line.
	Status() string

	// Progress returns the current operation progress in [0, 1].
	Progress() float64

	// Transcript returns a copy of the question/answer transcript.
	Transcript() []domain.Message

	// Subscribe registers an observer for engine events. Events are
	// delivered synchronously in emission order. The returned function
	// cancels the subscription.
	Subscribe(fn func(domain.Event)) (cancel func())
}
