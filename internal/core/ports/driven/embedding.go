package driven

import (
	"context"

	"github.com/illusthaey/savinghaey/internal/core/domain"
)

// Embedder encodes text into unit-norm vectors.
// It is a process-wide lazy singleton: the runtime loads on first use,
// concurrent loads coalesce into one attempt, and a failed load leaves
// the embedder retryable.
//
// Implementations may include:
//   - llama.cpp server (multilingual sentence encoders)
//   - LM Studio / Ollama embedding endpoints
//   - Any OpenAI-compatible embeddings API on localhost
type Embedder interface {
	// Load materialises the embedding runtime. Idempotent once Ready.
	// Prefers the accelerated endpoint and falls back to the CPU
	// endpoint when configured. Failure wraps domain.ErrEmbed and the
	// embedder stays unloaded so the next call retries.
	Load(ctx context.Context) error

	// Ready reports whether the runtime is usable without loading.
	Ready() bool

	// State returns the lazy-singleton lifecycle stage.
	State() domain.ModelState

	// EmbedBatch encodes the given texts, one unit-norm vector per
	// input, preserving input order. Callers keep batches to at most 8
	// texts; at most one call is in flight at a time.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size once loaded, 0 before.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
