package plaintext

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illusthaey/savinghaey/internal/core/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestExtensions(t *testing.T) {
	assert.ElementsMatch(t, []string{".txt", ".md"}, New().Extensions())
}

func TestExtract_SinglePage(t *testing.T) {
	path := writeFile(t, "note.txt", "first line\r\nsecond   line\n\n\n\nlast line\n")

	pages, err := New().Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	assert.Equal(t, 1, pages[0].Page)
	assert.Equal(t, "first line\nsecond line\n\nlast line", pages[0].Text)
}

func TestExtract_KoreanText(t *testing.T) {
	path := writeFile(t, "메모.txt", "한국어 문서입니다.\t내용이 있습니다.")

	pages, err := New().Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "한국어 문서입니다. 내용이 있습니다.", pages[0].Text)
}

func TestExtract_InvalidUTF8Replaced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.txt")
	require.NoError(t, os.WriteFile(path, []byte{'o', 'k', 0xff, 0xfe, '!'}, 0600))

	pages, err := New().Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Contains(t, pages[0].Text, "ok")
	assert.Contains(t, pages[0].Text, "!")
}

func TestExtract_MissingFile(t *testing.T) {
	_, err := New().Extract(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtract)
}

func TestExtract_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Extract(ctx, writeFile(t, "a.txt", "content"))
	assert.ErrorIs(t, err, context.Canceled)
}
