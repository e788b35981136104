// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: Durable document and chunk persistence
//   - Embedder: Encodes text batches into unit-norm vectors
//   - Generator: Streams grounded answers from a message list
//   - Extractor / ExtractorRegistry: Per-page text extraction from files
//   - VectorIndex: Top-K cosine retrieval over the in-memory corpus
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PromptStore: Customisable prompt templates. Without it, services
//     use their embedded defaults.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
