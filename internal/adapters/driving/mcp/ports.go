package mcp

import (
	"context"

	"github.com/illusthaey/savinghaey/internal/core/ports/driven"
	"github.com/illusthaey/savinghaey/internal/core/ports/driving"
)

// Retriever exposes raw evidence retrieval without generation.
// Implemented by the engine; separate from driving.Engine because only
// the MCP surface needs it.
type Retriever interface {
	// Retrieve returns the top-k chunks for the query by cosine
	// similarity. A non-positive k selects the configured default.
	Retrieve(ctx context.Context, query string, k int) ([]driven.Hit, error)
}

// Ports aggregates the driving interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Engine answers questions and reports corpus state.
	Engine driving.Engine

	// Retriever serves the retrieve tool.
	Retriever Retriever
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Engine == nil {
		return ErrMissingEngine
	}
	if p.Retriever == nil {
		return ErrMissingRetriever
	}
	return nil
}
