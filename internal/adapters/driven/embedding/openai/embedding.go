// Package openai provides the Embedder adapter against OpenAI-compatible
// embedding endpoints. The expected deployment is a local runtime
// (llama.cpp server, LM Studio, Ollama) serving a multilingual sentence
// encoder; a hosted endpoint works with an API key.
package openai

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/illusthaey/savinghaey/internal/core/domain"
	"github.com/illusthaey/savinghaey/internal/core/ports/driven"
	"github.com/illusthaey/savinghaey/internal/logger"
)

// Ensure Embedder implements the interface.
var _ driven.Embedder = (*Embedder)(nil)

// Default configuration values.
const (
	// DefaultBaseURL is the accelerated local embedding runtime.
	DefaultBaseURL = "http://127.0.0.1:8081/v1"

	// DefaultModel is a multilingual sentence encoder commonly served by
	// local runtimes.
	DefaultModel = "bge-m3"

	DefaultTimeout = 60 * time.Second

	// DefaultRequestsPerSecond caps embedding calls so batch ingestion
	// cannot flood a local runtime.
	DefaultRequestsPerSecond = 4.0
	DefaultBurst             = 2
)

// loadProbeText is embedded once during Load to verify the runtime and
// learn the vector dimension.
const loadProbeText = "ping"

// Config holds configuration for the embedding adapter.
type Config struct {
	// BaseURL is the preferred (accelerated) endpoint
	// (default: http://127.0.0.1:8081/v1).
	BaseURL string

	// FallbackURL is an optional CPU endpoint used when the preferred
	// endpoint is unreachable during Load.
	FallbackURL string

	// APIKey authenticates against hosted endpoints. Local runtimes
	// usually ignore it; an empty key is fine.
	APIKey string

	// Model is the embedding model to use (default: bge-m3).
	Model string

	// Timeout is the per-request timeout (default: 60s).
	Timeout time.Duration

	// RequestsPerSecond is the sustained request rate (default: 4).
	RequestsPerSecond float64

	// Burst is the maximum request burst (default: 2).
	Burst int
}

// Embedder is a lazy-loading embedding client. The runtime is probed on
// the first Load; concurrent loads coalesce into one attempt, and a
// failed attempt leaves the embedder retryable.
type Embedder struct {
	cfg     Config
	limiter *rate.Limiter

	mu         sync.Mutex
	state      domain.ModelState
	loading    chan struct{} // closed when the in-flight load finishes
	client     *openai.Client
	dimensions int
}

// NewEmbedder creates an embedding adapter. No I/O happens until Load.
func NewEmbedder(cfg Config) *Embedder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}

	return &Embedder{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		state:   domain.ModelUnloaded,
	}
}

// newClient builds a go-openai client for the given base URL.
func (e *Embedder) newClient(baseURL string) *openai.Client {
	clientCfg := openai.DefaultConfig(e.cfg.APIKey)
	clientCfg.BaseURL = baseURL
	clientCfg.HTTPClient = &http.Client{Timeout: e.cfg.Timeout}
	return openai.NewClientWithConfig(clientCfg)
}

// Load materialises the embedding runtime. The preferred endpoint is
// probed first; when it is unreachable and a fallback endpoint is
// configured, Load degrades to it. Idempotent once Ready; concurrent
// callers share one attempt.
func (e *Embedder) Load(ctx context.Context) error {
	e.mu.Lock()
	switch e.state {
	case domain.ModelReady:
		e.mu.Unlock()
		return nil
	case domain.ModelLoading:
		loading := e.loading
		e.mu.Unlock()
		// Wait for the in-flight attempt and report its outcome.
		select {
		case <-loading:
		case <-ctx.Done():
			return ctx.Err()
		}
		if e.Ready() {
			return nil
		}
		return fmt.Errorf("%w: load failed", domain.ErrEmbed)
	default:
		e.state = domain.ModelLoading
		e.loading = make(chan struct{})
	}
	e.mu.Unlock()

	client, dims, err := e.probe(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	close(e.loading)
	e.loading = nil

	if err != nil {
		e.state = domain.ModelFailed
		return err
	}

	e.client = client
	e.dimensions = dims
	e.state = domain.ModelReady
	logger.Info("Embedder ready: model=%s dimensions=%d", e.cfg.Model, dims)
	return nil
}

// probe embeds one short text to verify the runtime and learn the
// vector dimension, trying the fallback endpoint when the preferred one
// is unreachable.
func (e *Embedder) probe(ctx context.Context) (*openai.Client, int, error) {
	client := e.newClient(e.cfg.BaseURL)
	dims, err := e.probeEndpoint(ctx, client)
	if err == nil {
		return client, dims, nil
	}

	if e.cfg.FallbackURL == "" {
		return nil, 0, fmt.Errorf("%w: probing %s: %v", domain.ErrEmbed, e.cfg.BaseURL, err)
	}

	logger.Warn("Embedding endpoint %s unavailable, falling back to %s: %v",
		e.cfg.BaseURL, e.cfg.FallbackURL, err)

	client = e.newClient(e.cfg.FallbackURL)
	dims, fallbackErr := e.probeEndpoint(ctx, client)
	if fallbackErr != nil {
		return nil, 0, fmt.Errorf("%w: probing %s: %v (fallback %s: %v)",
			domain.ErrEmbed, e.cfg.BaseURL, err, e.cfg.FallbackURL, fallbackErr)
	}
	return client, dims, nil
}

// probeEndpoint runs the probe embedding against one client.
func (e *Embedder) probeEndpoint(ctx context.Context, client *openai.Client) (int, error) {
	resp, err := client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{loadProbeText},
		Model: openai.EmbeddingModel(e.cfg.Model),
	})
	if err != nil {
		return 0, err
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return 0, fmt.Errorf("probe returned no embedding")
	}
	return len(resp.Data[0].Embedding), nil
}

// Ready reports whether the runtime is usable without loading.
func (e *Embedder) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == domain.ModelReady
}

// State returns the lazy-singleton lifecycle stage.
func (e *Embedder) State() domain.ModelState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// EmbedBatch encodes the given texts, one unit-norm vector per input,
// preserving input order. The embedder must be Ready.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	e.mu.Lock()
	if e.state != domain.ModelReady {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: embedder not loaded", domain.ErrEmbed)
	}
	client := e.client
	dims := e.dimensions
	e.mu.Unlock()

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %v", domain.ErrEmbed, err)
	}

	resp, err := client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.EmbeddingModel(e.cfg.Model),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: embedding batch of %d: %v", domain.ErrEmbed, len(texts), err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d",
			domain.ErrEmbed, len(texts), len(resp.Data))
	}

	// The API reports an index per item; order the output by it rather
	// than trusting response order.
	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("%w: embedding index %d out of range", domain.ErrEmbed, item.Index)
		}
		if len(item.Embedding) != dims {
			return nil, fmt.Errorf("%w: embedding dimension %d, expected %d",
				domain.ErrEmbed, len(item.Embedding), dims)
		}
		vec := make([]float32, len(item.Embedding))
		copy(vec, item.Embedding)
		l2Normalize(vec)
		vectors[item.Index] = vec
	}

	for i, vec := range vectors {
		if vec == nil {
			return nil, fmt.Errorf("%w: no embedding returned for input %d", domain.ErrEmbed, i)
		}
	}

	return vectors, nil
}

// Dimensions returns the embedding vector size once loaded, 0 before.
func (e *Embedder) Dimensions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dimensions
}

// ModelName returns the name of the embedding model being used.
func (e *Embedder) ModelName() string {
	return e.cfg.Model
}

// Close releases resources.
func (e *Embedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.client = nil
	e.state = domain.ModelUnloaded
	e.dimensions = 0
	return nil
}

// l2Normalize scales the vector to unit length in place. A zero vector
// stays zero instead of becoming NaN.
func l2Normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
