// Package sqlite provides the SQLite-based implementation of the
// DocumentStore driven port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. A single database file
// holds both collections:
//
//   - documents: ingested files and their metadata
//   - chunks: retrievable text windows with their packed embeddings
//
// # Schema
//
// The database schema is managed through versioned migrations embedded from
// the migrations/ directory. Both tables carry an AUTOINCREMENT seq column;
// reads are ordered by it so insertion order survives restarts, which the
// retrieval tie-break depends on.
//
// # Data Location
//
// By default, the database is stored at ~/.savinghaey/data/corpus.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
