package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/illusthaey/savinghaey/internal/core/domain"
	"github.com/illusthaey/savinghaey/internal/core/ports/driven"
	"github.com/illusthaey/savinghaey/internal/logger"
)

// Generation temperatures per grounding policy.
const (
	strictTemperature  float32 = 0.2
	lenientTemperature float32 = 0.5
)

// noCitationWarning is attached to strict answers that cite nothing.
const noCitationWarning = "주의: 답변에 [C#] 인용이 없습니다"

// Embedded fallback prompts, used when no prompt store is injected.
// The file-based prompt store seeds its editable files with the same
// content.
var fallbackPrompts = map[string]string{
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

// prompt resolves a prompt template by name, preferring the injected
// prompt store and falling back to the embedded defaults.
func (e *Engine) prompt(name string) string {
	if e.prompts != nil {
		if content, err := e.prompts.Load(name); err == nil && content != "" {
			return content
		} else if err != nil {
			logger.Warn("Prompt %q failed to load, using default: %v", name, err)
		}
	}
	return fallbackPrompts[name]
}

// Ask answers a question grounded in the corpus. Preconditions (blank
// question, empty corpus, generator not loaded) fail before the
// transcript is touched; later failures leave a failed assistant
// message with any partial text still visible.
func (e *Engine) Ask(ctx context.Context, question string, opts domain.AskOptions) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.ErrEmptyQuestion
	}
	if err := e.beginTask(); err != nil {
		return err
	}
	defer e.endTask()

	if !e.hasIndexedChunk() {
		return domain.ErrNoCorpus
	}
	if !e.generator.Ready() {
		return domain.ErrGeneratorNotReady
	}
	if err := e.LoadEmbedder(ctx); err != nil {
		return err
	}

	// Transcript mutations start here. The assistant placeholder is
	// appended immediately so the UI can render the streaming answer.
	assistantIdx := e.appendQuestion(question, opts.Strict)

	e.setStatus("관련 자료 검색 중...")
	vectors, err := e.embedder.EmbedBatch(ctx, []string{question})
	if err != nil {
		e.failAnswer(assistantIdx, err)
		return err
	}

	hits := e.index.TopK(vectors[0], e.snapshotChunks(), e.topK)
	if len(hits) == 0 {
		e.failAnswer(assistantIdx, domain.ErrNoCorpus)
		return domain.ErrNoCorpus
	}
	logger.Debug("Retrieved %d chunk(s), top score %.4f", len(hits), hits[0].Score)

	temperature := lenientTemperature
	systemPrompt := e.prompt(driven.PromptAnswerSystem)
	if opts.Strict {
		temperature = strictTemperature
		systemPrompt = e.prompt(driven.PromptAnswerSystemStrict)
	}
	userPrompt := fmt.Sprintf(e.prompt(driven.PromptAnswerUser), evidenceBlock(hits), question)

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: systemPrompt},
		{Role: driven.RoleUser, Content: userPrompt},
	}

	e.setStatus("답변 생성 중...")
	answer, err := e.generator.Stream(ctx, messages, driven.GenerateOptions{
		MaxTokens:   e.maxTokens,
		Temperature: temperature,
	}, func(delta string) {
		e.appendDelta(assistantIdx, delta)
	})
	if err != nil {
		e.failAnswer(assistantIdx, err)
		return err
	}

	e.completeAnswer(assistantIdx, answer, hits, opts)
	e.setStatus("답변 완료")
	return nil
}

// evidenceBlock renders the retrieved chunks as the numbered [근거]
// block the prompts reference: "[C{n}] ({doc} / p.{page})" headers with
// the chunk text, separated by blank lines.
func evidenceBlock(hits []driven.Hit) string {
	var b strings.Builder
	for i, hit := range hits {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[C%d] (%s / p.%d)\n%s", i+1, hit.Chunk.DocName, hit.Chunk.Page, hit.Chunk.Text)
	}
	return b.String()
}

// appendQuestion appends the user message and the pending assistant
// placeholder, returning the placeholder's transcript index.
func (e *Engine) appendQuestion(question string, strict bool) int {
	userMsg := domain.Message{Role: domain.RoleUser, Text: question}
	assistantMsg := domain.Message{
		Role: domain.RoleAssistant,
		Meta: &domain.AnswerMeta{State: domain.AnswerPending, Strict: strict},
	}

	e.mu.Lock()
	e.transcript = append(e.transcript, userMsg, assistantMsg)
	idx := len(e.transcript) - 1
	e.mu.Unlock()

	e.emit(domain.MessageAppended{Index: idx - 1})
	e.emit(domain.MessageAppended{Index: idx})
	return idx
}

// appendDelta grows the assistant message by one streamed fragment.
func (e *Engine) appendDelta(idx int, delta string) {
	e.mu.Lock()
	e.transcript[idx].Text += delta
	e.mu.Unlock()
	e.emit(domain.MessageDeltaAppended{Index: idx, Delta: delta})
}

// failAnswer moves the assistant message to its failed terminal state.
// Partial streamed text is kept; a message that never received any text
// shows a Korean error line instead of staying blank.
func (e *Engine) failAnswer(idx int, cause error) {
	meta := &domain.AnswerMeta{State: domain.AnswerFailed, Err: cause.Error()}

	e.mu.Lock()
	meta.Strict = e.transcript[idx].Meta.Strict
	if e.transcript[idx].Text == "" {
		e.transcript[idx].Text = "답변 생성에 실패했습니다."
	}
	e.transcript[idx].Meta = meta
	e.mu.Unlock()

	e.emit(domain.MessageMetaReplaced{Index: idx})
	e.setStatus("답변 생성 실패")
}

// completeAnswer parses citations out of the final answer and attaches
// the terminal meta: citations, sources with used markers, and the
// no-citation warning for strict answers.
func (e *Engine) completeAnswer(idx int, answer string, hits []driven.Hit, opts domain.AskOptions) {
	citations := make([]int, 0)
	for _, n := range domain.ParseCitations(answer) {
		if n >= 1 && n <= len(hits) {
			citations = append(citations, n)
		}
	}

	cited := make(map[int]bool, len(citations))
	for _, n := range citations {
		cited[n] = true
	}

	sources := make([]domain.Source, 0, len(hits))
	for i, hit := range hits {
		src := domain.Source{
			Index:   i + 1,
			ChunkID: hit.Chunk.ID,
			DocName: hit.Chunk.DocName,
			Page:    hit.Chunk.Page,
			Score:   hit.Score,
			Used:    cited[i+1],
		}
		if opts.ShowContext || src.Used {
			sources = append(sources, src)
		}
	}

	meta := &domain.AnswerMeta{
		State:     domain.AnswerDone,
		Strict:    opts.Strict,
		Citations: citations,
		Sources:   sources,
	}
	if opts.Strict && len(citations) == 0 {
		meta.Warning = noCitationWarning
	}

	e.mu.Lock()
	e.transcript[idx].Text = answer
	e.transcript[idx].Meta = meta
	e.mu.Unlock()

	e.emit(domain.MessageMetaReplaced{Index: idx})
}
