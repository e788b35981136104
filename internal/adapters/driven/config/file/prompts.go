package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/illusthaey/savinghaey/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads generation prompts from user-editable files on
// disk, falling back to the embedded defaults. The prompt directory
// and its default files are created lazily on first Load, so merely
// constructing the store performs no I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts are the embedded templates, also written out as the
// initial content of new prompt files.
//
// The strict system prompt enforces the grounding policy: evidence only,
// the exact refusal sentinel, a terminal [출처] section. The lenient one
// allows partial summaries with gaps marked by the same sentinel. The
// user template takes two %s placeholders: evidence block and question.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptAnswerSystemStrict: `당신은 업로드된 자료만으로 답하는 문서 기반 어시스턴트입니다.

규칙:
1. 반드시 [근거] 블록의 내용만 사용하여 답하십시오. 외부 지식을 사용하지 마십시오.
2. 근거에 답이 없으면 정확히 다음 문장으로만 답하십시오: 자료에 근거가 없습니다.
3. 근거를 사용한 모든 주장 뒤에 해당 인용 ID를 [C1], [C2] 형식으로 붙이십시오.
4. 답변 마지막에 [출처] 섹션을 두고 사용한 인용 ID를 나열하십시오.
5. 한국어로 답하십시오.`,

	driven.PromptAnswerSystem: `당신은 업로드된 자료를 우선하여 답하는 문서 기반 어시스턴트입니다.

규칙:
1. [근거] 블록의 내용을 우선 사용하여 답하십시오.
2. 근거가 부족한 부분은 부분적으로 요약하되, 빠진 부분은 "자료에 근거가 없습니다."로 표시하십시오.
3. 근거를 사용한 주장 뒤에 해당 인용 ID를 [C1], [C2] 형식으로 붙이십시오.
4. 답변 마지막에 [출처] 섹션을 두고 사용한 인용 ID를 나열하십시오.
5. 한국어로 답하십시오.`,

	driven.PromptAnswerUser: `[근거]
%s

[질문]
%s

위 근거만을 바탕으로 질문에 답하고, 답변 마지막에 [출처] 섹션으로 사용한 [C#] 인용 ID를 나열하십시오.`,
}

// NewPromptStore creates a prompt store over promptDir. An empty
// promptDir means ~/.savinghaey/prompts.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".savinghaey", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the template for name: the cached copy if present, the
// on-disk file otherwise, the embedded default when the file cannot be
// read. The first call materialises the prompt directory.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	prompt, cached := s.cache[name]
	s.mu.RUnlock()
	if cached {
		return prompt, nil
	}

	// No lock held during file I/O.
	prompt, err := s.loadFromFile(name)
	if err != nil {
		if fallback, ok := defaultPrompts[name]; ok {
			return fallback, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	if existing, ok := s.cache[name]; ok {
		// A concurrent Load won the race; keep its value.
		prompt = existing
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload drops the cache so the next Load re-reads the files.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory, one file per default
// prompt (existing files are left alone) and the README.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	s.initErr = s.createReadme()
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes the directory README unless one already exists.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# Savinghaey Prompts

These files control how answers are generated from your documents.
Edit them to tune answer behaviour; delete a file to restore its
embedded default on the next run.

- answer_system_strict.txt - system prompt for strict grounded answering.
  The model may only use the retrieved evidence and must refuse with the
  exact sentence "자료에 근거가 없습니다." when the evidence is insufficient.
- answer_system.txt - system prompt for lenient grounded answering.
  Partial summaries are allowed; gaps are marked with the same sentinel.
- answer_user.txt - user prompt template. Keep the two %s placeholders:
  the first receives the [근거] evidence block, the second the question.

Keep the [C#] citation convention and the terminal [출처] section in all
prompts; citation parsing depends on them.
`

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("create prompts README: %w", err)
	}
	return nil
}
