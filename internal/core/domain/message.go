package domain

import "fmt"

// Role identifies the author of a transcript message.
type Role string

const (
	// RoleUser marks a question entered by the user.
	RoleUser Role = "user"

	// RoleAssistant marks a generated answer.
	RoleAssistant Role = "assistant"
)

// AnswerState tracks an assistant message through its lifecycle.
type AnswerState string

const (
	// AnswerPending marks a placeholder that is still streaming.
	AnswerPending AnswerState = "pending"

	// AnswerDone marks a completed answer.
	AnswerDone AnswerState = "done"

	// AnswerFailed marks an answer whose generation failed. Any partial
	// text streamed before the failure stays visible.
	AnswerFailed AnswerState = "failed"
)

// Message is one entry of the question/answer transcript.
type Message struct {
	// Role is the author of the message.
	Role Role `json:"role"`

	// Text is the message content. For assistant messages it grows
	// delta by delta while generation streams.
	Text string `json:"text"`

	// Meta carries answer bookkeeping for assistant messages.
	// It is replaced exactly once when the answer reaches a terminal
	// state. Nil for user messages.
	Meta *AnswerMeta `json:"meta,omitempty"`
}

// AnswerMeta is the bookkeeping attached to an assistant message.
type AnswerMeta struct {
	// State is the message lifecycle stage.
	State AnswerState `json:"state"`

	// Strict records whether the answer was generated under the strict
	// grounding policy.
	Strict bool `json:"strict"`

	// Citations are the distinct citation numbers parsed from the final
	// answer text, in order of first appearance.
	Citations []int `json:"citations,omitempty"`

	// Sources are the retrieved chunks the answer was grounded on.
	// When the question was asked with ShowContext every retrieved chunk
	// is listed with its used marker; otherwise only the cited ones.
	Sources []Source `json:"sources,omitempty"`

	// Warning is a non-fatal notice, such as a strict-mode answer that
	// carries no citations.
	Warning string `json:"warning,omitempty"`

	// Err is the failure description when State is AnswerFailed.
	Err string `json:"error,omitempty"`
}

// Source describes one retrieved chunk behind an answer.
type Source struct {
	// Index is the 1-based rank of the chunk in the retrieval result,
	// matching the [C#] citation number.
	Index int `json:"index"`

	// ChunkID identifies the retrieved chunk.
	ChunkID string `json:"chunkId"`

	// DocName is the display name of the chunk's document.
	DocName string `json:"docName"`

	// Page is the chunk's source page.
	Page int `json:"page"`

	// Score is the cosine similarity against the question.
	Score float64 `json:"score"`

	// Used reports whether the answer cited this chunk.
	Used bool `json:"used"`
}

// Label renders the citation label for the source, e.g. "[C3]".
func (s Source) Label() string {
	return fmt.Sprintf("[C%d]", s.Index)
}

// AskOptions control how a question is answered.
type AskOptions struct {
	// Strict enforces the grounding policy: the answer may only use the
	// retrieved evidence and must refuse when it is insufficient.
	Strict bool

	// ShowContext attaches every retrieved chunk to the answer meta,
	// not just the cited ones.
	ShowContext bool
}
