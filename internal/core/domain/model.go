package domain

// ModelState is the lifecycle stage of a lazily loaded model runtime.
// Embedder and generator are process-wide singletons: the first use
// transitions Unloaded to Loading to Ready, concurrent loads coalesce
// into one attempt, and a failed load leaves the runtime retryable.
type ModelState string

const (
	// ModelUnloaded means no load has been attempted yet.
	ModelUnloaded ModelState = "unloaded"

	// ModelLoading means a load attempt is in flight.
	ModelLoading ModelState = "loading"

	// ModelReady means the runtime is usable.
	ModelReady ModelState = "ready"

	// ModelFailed means the last load attempt failed. The next use
	// retries the load.
	ModelFailed ModelState = "failed"
)

// String returns the string representation.
func (s ModelState) String() string {
	return string(s)
}
