package domain

// Event is a notification emitted by the engine after it mutates
// observable state. Views subscribe to events instead of polling.
// Events are delivered synchronously, in emission order.
type Event interface {
	isEvent()
}

// StatusChanged reports a new human-readable status line.
type StatusChanged struct {
	// Text is the status line.
	Text string
}

// ProgressChanged reports long-running operation progress.
type ProgressChanged struct {
	// Fraction is in [0, 1].
	Fraction float64
}

// DocumentsChanged reports that the document list or chunk count moved.
type DocumentsChanged struct{}

// AlertRaised reports a user-visible, non-fatal problem, such as a file
// that failed to ingest while its siblings continued.
type AlertRaised struct {
	// Text is the alert message.
	Text string
}

// MessageAppended reports a new transcript message.
type MessageAppended struct {
	// Index is the position of the new message in the transcript.
	Index int
}

// MessageDeltaAppended reports streamed text added to a transcript
// message. Deltas arrive in generation order and are append-only.
type MessageDeltaAppended struct {
	// Index is the position of the message in the transcript.
	Index int

	// Delta is the appended text fragment.
	Delta string
}

// MessageMetaReplaced reports that a transcript message reached a
// terminal state and its meta was replaced.
type MessageMetaReplaced struct {
	// Index is the position of the message in the transcript.
	Index int
}

func (StatusChanged) isEvent()        {}
func (ProgressChanged) isEvent()      {}
func (DocumentsChanged) isEvent()     {}
func (AlertRaised) isEvent()          {}
func (MessageAppended) isEvent()      {}
func (MessageDeltaAppended) isEvent() {}
func (MessageMetaReplaced) isEvent()  {}
