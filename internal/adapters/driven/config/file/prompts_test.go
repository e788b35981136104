package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illusthaey/savinghaey/internal/core/ports/driven"
)

func setupPromptStore(t *testing.T) *PromptStore {
	t.Helper()

	store, err := NewPromptStore(filepath.Join(t.TempDir(), "prompts"))
	require.NoError(t, err)
	return store
}

func TestLoad_ReturnsDefaults(t *testing.T) {
	store := setupPromptStore(t)

	strict, err := store.Load(driven.PromptAnswerSystemStrict)
	require.NoError(t, err)
	assert.Contains(t, strict, "자료에 근거가 없습니다.")
	assert.Contains(t, strict, "[출처]")
	assert.Contains(t, strict, "외부 지식")

	lenient, err := store.Load(driven.PromptAnswerSystem)
	require.NoError(t, err)
	assert.Contains(t, lenient, "자료에 근거가 없습니다.")
	assert.Contains(t, lenient, "[출처]")

	user, err := store.Load(driven.PromptAnswerUser)
	require.NoError(t, err)
	assert.Contains(t, user, "[근거]")
	assert.Contains(t, user, "[질문]")
	assert.Equal(t, 2, strings.Count(user, "%s"), "user template needs evidence and question placeholders")
}

func TestLoad_CreatesEditableFiles(t *testing.T) {
	store := setupPromptStore(t)

	_, err := store.Load(driven.PromptAnswerSystemStrict)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(store.Dir(), driven.PromptAnswerSystemStrict+".txt"))
	assert.FileExists(t, filepath.Join(store.Dir(), driven.PromptAnswerSystem+".txt"))
	assert.FileExists(t, filepath.Join(store.Dir(), driven.PromptAnswerUser+".txt"))
	assert.FileExists(t, filepath.Join(store.Dir(), "README.md"))
}

func TestLoad_UserFileOverridesDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")
	require.NoError(t, os.MkdirAll(dir, 0700))
	custom := "커스텀 시스템 프롬프트"
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, driven.PromptAnswerSystem+".txt"), []byte(custom+"\n"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	got, err := store.Load(driven.PromptAnswerSystem)
	require.NoError(t, err)
	assert.Equal(t, custom, got, "file content wins and is trimmed")
}

func TestLoad_UnknownPrompt(t *testing.T) {
	store := setupPromptStore(t)

	_, err := store.Load("no_such_prompt")
	assert.Error(t, err)
}

func TestReload_PicksUpEdits(t *testing.T) {
	store := setupPromptStore(t)

	// Populate cache with the default.
	first, err := store.Load(driven.PromptAnswerUser)
	require.NoError(t, err)

	edited := "[근거]\n%s\n\n[질문]\n%s\n\n짧게 답하십시오. [출처] 필수."
	require.NoError(t, os.WriteFile(
		filepath.Join(store.Dir(), driven.PromptAnswerUser+".txt"), []byte(edited), 0600))

	// Cached value until reloaded.
	cached, err := store.Load(driven.PromptAnswerUser)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	store.Reload()
	fresh, err := store.Load(driven.PromptAnswerUser)
	require.NoError(t, err)
	assert.Equal(t, edited, fresh)
}
