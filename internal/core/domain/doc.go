// Package domain defines the core business entities for Savinghaey.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested file with metadata
//   - Chunk: A retrievable unit of normalised text with its embedding
//   - Message: One entry of the question/answer transcript
//   - Archive: The portable export/import snapshot of the corpus
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
