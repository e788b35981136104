package file

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/illusthaey/savinghaey/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// Well-known configuration keys. Nested TOML tables flatten to these
// dot-notation keys on load.
const (
	KeyDataDir = "data_dir"

	KeyEmbeddingBaseURL     = "embedding.base_url"
	KeyEmbeddingFallbackURL = "embedding.fallback_url"
	KeyEmbeddingModel       = "embedding.model"
	KeyEmbeddingAPIKey      = "embedding.api_key"

	KeyGenerationBaseURL   = "generation.base_url"
	KeyGenerationModel     = "generation.model"
	KeyGenerationAPIKey    = "generation.api_key"
	KeyGenerationMaxTokens = "generation.max_tokens"

	KeyChunkSize    = "chunk.size"
	KeyChunkOverlap = "chunk.overlap"

	KeyRetrieveTopK = "retrieve.top_k"

	KeyAskShowContextDefault = "ask.show_context_default"
)

// ConfigStore keeps configuration in a single TOML file under the
// savinghaey config directory. Values live in a flat dot-notation map
// guarded by a read-write mutex; every Set writes through to disk.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// NewConfigStore opens (or creates) the config directory and reads
// config.toml from it. An empty configDir means ~/.savinghaey.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".savinghaey")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		data:     make(map[string]any),
	}
	if err := s.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return s, nil
}

// Get returns the raw value for a key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// GetString returns the value for key, or "" when absent or not a string.
func (s *ConfigStore) GetString(key string) string {
	val, _ := s.Get(key)
	str, _ := val.(string)
	return str
}

// GetInt returns the value for key, or 0 when absent or not an integer.
// TOML integers decode as int64.
func (s *ConfigStore) GetInt(key string) int {
	val, _ := s.Get(key)
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// GetBool returns the value for key, or false when absent or not a bool.
func (s *ConfigStore) GetBool(key string) bool {
	val, _ := s.Get(key)
	b, _ := val.(bool)
	return b
}

// Set stores a value and persists the file immediately.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.save()
}

// Save writes the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save marshals the map to TOML. Caller holds the write lock.
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(s.data)
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0600)
}

// Load re-reads config.toml, replacing the in-memory map. A missing
// file leaves the store empty.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		s.data = make(map[string]any)
		return nil
	}
	if err != nil {
		return err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return err
	}

	s.data = make(map[string]any)
	flattenInto(s.data, loaded, "")
	return nil
}

// flattenInto walks nested tables and records leaves under dot-joined
// keys, so [embedding] model = "bge-m3" reads back as "embedding.model".
func flattenInto(dst, src map[string]any, prefix string) {
	for key, value := range src {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			flattenInto(dst, nested, full)
			continue
		}
		dst[full] = value
	}
}

// Keys returns every configured key in dot notation, unsorted.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	return keys
}

// Path returns the location of the TOML file.
func (s *ConfigStore) Path() string {
	return s.filePath
}
