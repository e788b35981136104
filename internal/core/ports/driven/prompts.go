package driven

// PromptStore provides access to generation prompt templates.
// Implementations may load prompts from files or embed them in the
// binary. Editing the on-disk files tunes answer behaviour without a
// rebuild.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptAnswerSystemStrict is the system prompt for strict grounded
	// answering: evidence only, exact refusal sentinel, citations per
	// claim. No format placeholders.
	PromptAnswerSystemStrict = "answer_system_strict"

	// PromptAnswerSystem is the system prompt for lenient grounded
	// answering: evidence preferred, gaps marked. No format placeholders.
	PromptAnswerSystem = "answer_system"

	// PromptAnswerUser is the user prompt template. It expects two %s
	// placeholders: the evidence block and the question.
	PromptAnswerUser = "answer_user"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
// Services implementing this interface can have their prompt templates customised
// by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use hardcoded default prompts.
	SetPromptStore(store PromptStore)
}
