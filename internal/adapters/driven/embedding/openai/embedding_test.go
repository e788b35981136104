package openai

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illusthaey/savinghaey/internal/core/domain"
)

// embeddingServer fakes an OpenAI-compatible /embeddings endpoint that
// returns a fixed-dimension vector per input. Responses list items in
// reverse order to exercise index-based reassembly.
func embeddingServer(t *testing.T, dims int, fail *atomic.Bool) *httptest.Server {
	t.Helper()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail != nil && fail.Load() {
			http.Error(w, `{"error":{"message":"model not loaded"}}`, http.StatusInternalServerError)
			return
		}

		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		type item struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		}
		items := make([]item, 0, len(req.Input))
		for i := len(req.Input) - 1; i >= 0; i-- {
			// Non-normalised one-hot vector per input position, so both
			// ordering and normalisation are observable.
			vec := make([]float32, dims)
			vec[i%dims] = float32(i + 2)
			items = append(items, item{Embedding: vec, Index: i})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": items}) //nolint:errcheck
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestLoad_ProbeLearnsDimensions(t *testing.T) {
	server := embeddingServer(t, 8, nil)
	e := NewEmbedder(Config{BaseURL: server.URL})

	assert.Equal(t, domain.ModelUnloaded, e.State())
	assert.Equal(t, 0, e.Dimensions())

	require.NoError(t, e.Load(context.Background()))
	assert.True(t, e.Ready())
	assert.Equal(t, domain.ModelReady, e.State())
	assert.Equal(t, 8, e.Dimensions())

	// Second load is a no-op.
	require.NoError(t, e.Load(context.Background()))
}

func TestLoad_FailureLeavesRetryable(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	server := embeddingServer(t, 4, &fail)
	e := NewEmbedder(Config{BaseURL: server.URL})

	err := e.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbed)
	assert.Equal(t, domain.ModelFailed, e.State())
	assert.False(t, e.Ready())

	// The runtime comes up; the next load succeeds.
	fail.Store(false)
	require.NoError(t, e.Load(context.Background()))
	assert.True(t, e.Ready())
}

func TestLoad_FallsBackToSecondEndpoint(t *testing.T) {
	fallback := embeddingServer(t, 4, nil)

	// Unreachable primary: a server that is already closed.
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	e := NewEmbedder(Config{BaseURL: deadURL, FallbackURL: fallback.URL})
	require.NoError(t, e.Load(context.Background()))
	assert.True(t, e.Ready())
	assert.Equal(t, 4, e.Dimensions())
}

func TestLoad_NoEndpointReachable(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	e := NewEmbedder(Config{BaseURL: deadURL})
	err := e.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbed)
}

func TestEmbedBatch_OrderAndNormalisation(t *testing.T) {
	server := embeddingServer(t, 4, nil)
	e := NewEmbedder(Config{BaseURL: server.URL})
	require.NoError(t, e.Load(context.Background()))

	vectors, err := e.EmbedBatch(context.Background(), []string{"first", "second", "third"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)

	for i, vec := range vectors {
		require.Len(t, vec, 4)

		var norm float64
		for _, v := range vec {
			norm += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm), 0.02, "vector %d must be unit-norm", i)

		// The fake server answers in reverse order; the one-hot axis
		// proves the adapter restored input order from response indices.
		assert.InDelta(t, 1.0, float64(vec[i%4]), 1e-6, "vector %d on wrong axis", i)
	}
}

func TestEmbedBatch_RequiresLoad(t *testing.T) {
	server := embeddingServer(t, 4, nil)
	e := NewEmbedder(Config{BaseURL: server.URL})

	_, err := e.EmbedBatch(context.Background(), []string{"text"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbed)
}

func TestEmbedBatch_EmptyInput(t *testing.T) {
	server := embeddingServer(t, 4, nil)
	e := NewEmbedder(Config{BaseURL: server.URL})
	require.NoError(t, e.Load(context.Background()))

	vectors, err := e.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestClose_ResetsState(t *testing.T) {
	server := embeddingServer(t, 4, nil)
	e := NewEmbedder(Config{BaseURL: server.URL})
	require.NoError(t, e.Load(context.Background()))

	require.NoError(t, e.Close())
	assert.False(t, e.Ready())
	assert.Equal(t, 0, e.Dimensions())
}

func TestL2Normalize_ZeroVectorStaysZero(t *testing.T) {
	vec := []float32{0, 0, 0}
	l2Normalize(vec)
	assert.Equal(t, []float32{0, 0, 0}, vec)
}
