// Package openai provides the Generator adapter against OpenAI-compatible
// chat completion endpoints. The expected deployment is a GPU-backed
// local runtime (llama.cpp server, LM Studio, Ollama); when no runtime
// is reachable, loading fails and generation stays disabled.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/illusthaey/savinghaey/internal/core/domain"
	"github.com/illusthaey/savinghaey/internal/core/ports/driven"
	"github.com/illusthaey/savinghaey/internal/logger"
)

// Ensure Generator implements the interface.
var _ driven.Generator = (*Generator)(nil)

// Default configuration values.
const (
	// DefaultBaseURL is the local generation runtime.
	DefaultBaseURL = "http://127.0.0.1:8080/v1"

	// DefaultModel is the model requested when the caller does not name
	// one. Local runtimes typically serve a single loaded model under
	// whatever name it was started with.
	DefaultModel = "exaone-3.5-7.8b-instruct"

	// DefaultMaxTokens bounds a single generated answer.
	DefaultMaxTokens = 1024

	// DefaultProbeTimeout bounds the availability probe during Load.
	DefaultProbeTimeout = 15 * time.Second
)

// Config holds configuration for the generation adapter.
type Config struct {
	// BaseURL is the chat completion endpoint
	// (default: http://127.0.0.1:8080/v1).
	BaseURL string

	// APIKey authenticates against hosted endpoints; local runtimes
	// ignore it.
	APIKey string

	// Model is the default generative model.
	Model string

	// MaxTokens bounds a single answer when the request does not
	// (default: 1024).
	MaxTokens int

	// ProbeTimeout bounds the availability probe (default: 15s).
	ProbeTimeout time.Duration
}

// Generator is a lazy-loading streaming generation client. Loading is
// explicitly user-initiated: an unreachable runtime fails with
// domain.ErrGeneratorUnavailable and the generator stays unloaded.
type Generator struct {
	cfg Config

	mu      sync.Mutex
	state   domain.ModelState
	loading chan struct{} // closed when the in-flight load finishes
	client  *openai.Client
	model   string

	// streaming serialises Stream calls; parallel streams are not
	// supported by the runtime.
	streaming sync.Mutex
}

// NewGenerator creates a generation adapter. No I/O happens until Load.
func NewGenerator(cfg Config) *Generator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}

	return &Generator{
		cfg:   cfg,
		state: domain.ModelUnloaded,
		model: cfg.Model,
	}
}

// Load materialises the generation runtime for the given model. An
// empty modelID selects the configured default. Concurrent loads
// coalesce; a failed load is retryable.
func (g *Generator) Load(ctx context.Context, modelID string, onProgress driven.LoadProgressFunc) error {
	report := func(fraction float64, text string) {
		if onProgress != nil {
			onProgress(fraction, text)
		}
	}

	g.mu.Lock()
	switch g.state {
	case domain.ModelReady:
		g.mu.Unlock()
		report(1.0, "ready")
		return nil
	case domain.ModelLoading:
		loading := g.loading
		g.mu.Unlock()
		select {
		case <-loading:
		case <-ctx.Done():
			return ctx.Err()
		}
		if g.Ready() {
			report(1.0, "ready")
			return nil
		}
		return fmt.Errorf("%w: load failed", domain.ErrGeneratorUnavailable)
	default:
		g.state = domain.ModelLoading
		g.loading = make(chan struct{})
		if modelID != "" {
			g.model = modelID
		}
	}
	model := g.model
	g.mu.Unlock()

	client, err := g.load(ctx, model, report)

	g.mu.Lock()
	defer g.mu.Unlock()
	close(g.loading)
	g.loading = nil

	if err != nil {
		g.state = domain.ModelFailed
		return err
	}

	g.client = client
	g.state = domain.ModelReady
	logger.Info("Generator ready: model=%s endpoint=%s", model, g.cfg.BaseURL)
	return nil
}

// load probes the runtime and warms the model up, reporting progress.
func (g *Generator) load(ctx context.Context, model string, report driven.LoadProgressFunc) (*openai.Client, error) {
	clientCfg := openai.DefaultConfig(g.cfg.APIKey)
	clientCfg.BaseURL = g.cfg.BaseURL
	client := openai.NewClientWithConfig(clientCfg)

	report(0.1, "probing runtime")

	probeCtx, cancel := context.WithTimeout(ctx, g.cfg.ProbeTimeout)
	defer cancel()
	if _, err := client.ListModels(probeCtx); err != nil {
		return nil, fmt.Errorf("%w: probing %s: %v", domain.ErrGeneratorUnavailable, g.cfg.BaseURL, err)
	}

	report(0.4, "loading model")

	// A one-token completion forces the runtime to page the model in,
	// so the first real answer does not absorb the load time.
	_, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     model,
		Messages:  []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: "ping"}},
		MaxTokens: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: warming up %s: %v", domain.ErrGeneratorUnavailable, model, err)
	}

	report(1.0, "ready")
	return client, nil
}

// Ready reports whether answers can be generated now.
func (g *Generator) Ready() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == domain.ModelReady
}

// State returns the lazy-singleton lifecycle stage.
func (g *Generator) State() domain.ModelState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Stream generates a completion for the conversation, invoking onDelta
// for every streamed fragment in arrival order, and returns the
// accumulated answer. A mid-stream failure returns the partial text
// together with an error wrapping domain.ErrGenerate.
func (g *Generator) Stream(
	ctx context.Context,
	messages []driven.ChatMessage,
	opts driven.GenerateOptions,
	onDelta func(string),
) (string, error) {
	g.mu.Lock()
	if g.state != domain.ModelReady {
		g.mu.Unlock()
		return "", domain.ErrGeneratorNotReady
	}
	client := g.client
	model := g.model
	g.mu.Unlock()

	if !g.streaming.TryLock() {
		return "", fmt.Errorf("%w: a stream is already active", domain.ErrGenerate)
	}
	defer g.streaming.Unlock()

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = g.cfg.MaxTokens
	}

	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	stream, err := client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    chatMessages,
		MaxTokens:   maxTokens,
		Temperature: opts.Temperature,
		Stream:      true,
	})
	if err != nil {
		return "", fmt.Errorf("%w: starting stream: %v", domain.ErrGenerate, err)
	}
	defer stream.Close() //nolint:errcheck

	var answer strings.Builder
	for {
		response, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return answer.String(), nil
			}
			if ctx.Err() != nil {
				return answer.String(), ctx.Err()
			}
			return answer.String(), fmt.Errorf("%w: mid-stream: %v", domain.ErrGenerate, err)
		}

		if len(response.Choices) == 0 {
			continue
		}
		delta := response.Choices[0].Delta.Content
		if delta == "" {
			continue
		}

		answer.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}
}

// ModelName returns the name of the loaded generative model.
func (g *Generator) ModelName() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.model
}

// Close releases resources.
func (g *Generator) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.client = nil
	g.state = domain.ModelUnloaded
	return nil
}
