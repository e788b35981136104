package driven

// ConfigStore reads and writes application configuration. Keys use
// dot notation ("embedding.model"); typed getters return the zero
// value when the key is absent or holds a different type.
type ConfigStore interface {
	// Get returns the raw value for a key and whether it exists.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error

	// Load re-reads configuration from backing storage.
	Load() error

	// Path identifies the backing location, for display.
	Path() string
}
