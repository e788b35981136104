package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illusthaey/savinghaey/internal/extractors"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte("내용"), 0600))
}

func TestExpandPaths(t *testing.T) {
	originalRegistry := registry
	registry = extractors.Default()
	defer func() { registry = originalRegistry }()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"))
	writeFile(t, filepath.Join(dir, "b.pdf"))
	writeFile(t, filepath.Join(dir, "skip.png"))
	writeFile(t, filepath.Join(dir, "nested", "c.md"))

	t.Run("plain file passes through", func(t *testing.T) {
		paths, err := expandPaths([]string{filepath.Join(dir, "a.txt")})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "a.txt")}, paths)
	})

	t.Run("directory expands to supported files", func(t *testing.T) {
		addRecursive = false
		paths, err := expandPaths([]string{dir})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			filepath.Join(dir, "a.txt"),
			filepath.Join(dir, "b.pdf"),
		}, paths)
	})

	t.Run("recursive includes subdirectories", func(t *testing.T) {
		addRecursive = true
		defer func() { addRecursive = false }()

		paths, err := expandPaths([]string{dir})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			filepath.Join(dir, "a.txt"),
			filepath.Join(dir, "b.pdf"),
			filepath.Join(dir, "nested", "c.md"),
		}, paths)
	})

	t.Run("missing path errors", func(t *testing.T) {
		_, err := expandPaths([]string{filepath.Join(dir, "missing.txt")})
		assert.Error(t, err)
	})
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512 B", humanSize(512))
	assert.Equal(t, "1.0 KB", humanSize(1024))
	assert.Equal(t, "2.5 MB", humanSize(2621440))
}

func TestEnvOr(t *testing.T) {
	t.Setenv("SAVINGHAEY_EMBEDDING_BASE_URL", "http://10.0.0.2:8081/v1")

	assert.Equal(t, "http://10.0.0.2:8081/v1", envOr("embedding.base_url", "http://fallback"))
	assert.Equal(t, "http://fallback", envOr("embedding.model", "http://fallback"))
	assert.Equal(t, 42, envOrInt("retrieve.top_k", 42))

	t.Setenv("SAVINGHAEY_RETRIEVE_TOP_K", "9")
	assert.Equal(t, 9, envOrInt("retrieve.top_k", 42))
}
