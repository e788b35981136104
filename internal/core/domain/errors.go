package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrStorage indicates the persistent store failed (backend error,
	// schema mismatch, unavailable storage). Fatal for ingestion commits,
	// non-fatal for answering: retrieval keeps using in-memory state.
	ErrStorage = errors.New("storage error")

	// ErrExtract indicates text extraction from a source file failed,
	// typically a malformed PDF. Surfaced per file; siblings continue.
	ErrExtract = errors.New("extract error")

	// ErrEmbed indicates the embedding runtime failed to load or to
	// encode a batch. The embedder stays unloaded so the next call
	// retries the load.
	ErrEmbed = errors.New("embedding error")

	// ErrGeneratorUnavailable indicates the generation runtime cannot run
	// on this machine (no capable device, runtime unreachable). The
	// generator remains unloaded.
	ErrGeneratorUnavailable = errors.New("generator unavailable")

	// ErrGeneratorNotReady indicates a question was asked before the
	// generator finished loading. Surfaced before mutating the transcript.
	ErrGeneratorNotReady = errors.New("generator not ready")

	// ErrGenerate indicates the generation stream failed mid-answer.
	// The partial answer stays visible; there is no automatic retry.
	ErrGenerate = errors.New("generate error")

	// ErrNoCorpus indicates no chunk with an embedding exists, so
	// retrieval has nothing to rank. Surfaced before mutating the
	// transcript.
	ErrNoCorpus = errors.New("no corpus")

	// ErrImportFormat indicates an import payload is not a valid archive
	// (wrong version, missing docs or chunks arrays, unparseable JSON).
	// The import aborts before the store is cleared.
	ErrImportFormat = errors.New("import format error")

	// ErrEmptyQuestion indicates a blank question was submitted.
	ErrEmptyQuestion = errors.New("empty question")

	// ErrBusy indicates another engine operation is already running.
	// Exactly one task (ingest, ask, reindex, import) runs at a time.
	ErrBusy = errors.New("another operation is in progress")

	// ErrUnsupportedType indicates no extractor handles the file type.
	ErrUnsupportedType = errors.New("unsupported file type")
)
