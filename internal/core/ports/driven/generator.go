package driven

import (
	"context"

	"github.com/illusthaey/savinghaey/internal/core/domain"
)

// Chat roles accepted by the Generator.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// GenerateOptions configures answer generation.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	// The strict grounding policy uses 0.2, the lenient one 0.5.
	Temperature float32
}

// LoadProgressFunc receives generator load progress: a fraction in
// [0, 1] and a short human-readable stage description.
type LoadProgressFunc func(fraction float64, text string)

// Generator streams answers from a locally hosted generative model.
// Like the Embedder it is a lazy process-wide singleton, but loading is
// explicitly user-initiated and requires a capable runtime: when none is
// reachable, Load fails with domain.ErrGeneratorUnavailable and the
// generator stays unloaded.
type Generator interface {
	// Load materialises the generation runtime for the given model.
	// An empty modelID selects the configured default. Progress is
	// reported through onProgress when non-nil. Concurrent loads
	// coalesce; a failed load is retryable.
	Load(ctx context.Context, modelID string, onProgress LoadProgressFunc) error

	// Ready reports whether answers can be generated now.
	Ready() bool

	// State returns the lazy-singleton lifecycle stage.
	State() domain.ModelState

	// Stream generates a completion for the conversation, invoking
	// onDelta for every streamed text fragment in arrival order, and
	// returns the accumulated answer. A mid-stream failure returns the
	// partial text together with an error wrapping domain.ErrGenerate.
	// No parallel calls: a second Stream while one runs is not
	// supported.
	Stream(ctx context.Context, messages []ChatMessage, opts GenerateOptions, onDelta func(string)) (string, error)

	// ModelName returns the name of the loaded generative model.
	ModelName() string

	// Close releases resources.
	Close() error
}
