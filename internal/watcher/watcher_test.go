package watcher

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illusthaey/savinghaey/internal/core/domain"
	"github.com/illusthaey/savinghaey/internal/extractors"
)

// stubEngine records AddFiles calls and no-ops everything else.
type stubEngine struct {
	mu    sync.Mutex
	calls [][]string
}

func (s *stubEngine) AddFiles(_ context.Context, paths []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, paths)
	return len(paths), nil
}

func (s *stubEngine) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubEngine) allPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var paths []string
	for _, call := range s.calls {
		paths = append(paths, call...)
	}
	return paths
}

func (s *stubEngine) Ask(context.Context, string, domain.AskOptions) error { return nil }
func (s *stubEngine) LoadEmbedder(context.Context) error { return nil }
func (s *stubEngine) LoadGenerator(context.Context, string) error { return nil }
func (s *stubEngine) ClearAll(context.Context) error { return nil }
func (s *stubEngine) Export(context.Context, io.Writer) error { return nil }
func (s *stubEngine) Import(context.Context, io.Reader) error { return nil }
func (s *stubEngine) ReindexAll(context.Context) error { return nil }
func (s *stubEngine) Documents() []domain.Document { return nil }
func (s *stubEngine) ChunkCount() int { return 0 }
func (s *stubEngine) EmbedderReady() bool { return false }
func (s *stubEngine) GeneratorReady() bool { return false }
func (s *stubEngine) Status() string { return "" }
func (s *stubEngine) Progress() float64 { return 0 }
func (s *stubEngine) Transcript() []domain.Message { return nil }
func (s *stubEngine) Subscribe(func(domain.Event)) func() { return func() {} }

func startWatcher(t *testing.T, engine *stubEngine, dir string) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	w := New(engine, extractors.Default(), 50*time.Millisecond)
	go func() {
		_ = w.Run(ctx, []string{dir})
	}()
	// Give fsnotify a moment to establish the watch.
	time.Sleep(100 * time.Millisecond)
}

func TestRun_IngestsSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	engine := &stubEngine{}
	startWatcher(t, engine, dir)

	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("새로운 메모"), 0600))

	assert.Eventually(t, func() bool {
		return engine.callCount() >= 1
	}, 3*time.Second, 20*time.Millisecond)
	assert.Contains(t, engine.allPaths(), path)
}

func TestRun_IgnoresUnsupportedExtensions(t *testing.T) {
	dir := t.TempDir()
	engine := &stubEngine{}
	startWatcher(t, engine, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte{0x89}, 0600))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 0, engine.callCount())
}

func TestRun_DebouncesBurstsIntoOneBatch(t *testing.T) {
	dir := t.TempDir()
	engine := &stubEngine{}
	startWatcher(t, engine, dir)

	path := filepath.Join(dir, "draft.md")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("버전 갱신"), 0600))
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return engine.callCount() >= 1
	}, 3*time.Second, 20*time.Millisecond)

	// The quick rewrites collapsed into a single ingestion.
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, engine.callCount())
}

func TestRun_NoDirectories(t *testing.T) {
	w := New(&stubEngine{}, extractors.Default(), 0)
	require.Error(t, w.Run(context.Background(), nil))
}

func TestRun_ContextCancel(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	w := New(&stubEngine{}, extractors.Default(), 0)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, []string{dir}) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on context cancel")
	}
}
