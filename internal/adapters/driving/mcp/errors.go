// Package mcp provides a Model Context Protocol server adapter for
// savinghaey. It lets AI assistants ask grounded questions about the
// local corpus and retrieve raw evidence chunks.
package mcp

import "errors"

// ErrMissingEngine is returned when the engine port is not provided.
var ErrMissingEngine = errors.New("mcp: engine is required")

// ErrMissingRetriever is returned when the retriever port is not provided.
var ErrMissingRetriever = errors.New("mcp: retriever is required")
