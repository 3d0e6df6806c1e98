package domain

// AskRequest represents a unified, vendor-neutral LLM request.
// Only the vendor adapters know how to project it into a wire payload.
type AskRequest struct {
	// Prompt is the user's input. Required, non-empty.
	Prompt string

	// System is an optional system instruction / persona.
	System string

	// Model overrides the adapter's resolved model when non-empty.
	// Precedence: this field > vendor env override > adapter default.
	Model string

	// Temperature is passed through unvalidated; out-of-range values
	// surface as a vendor-side HTTP error.
	Temperature float64

	// MaxTokens caps output tokens. Zero means the adapter default.
	MaxTokens int

	// JSONMode requests JSON-structured output. Enforcement is
	// vendor-specific; validation of the result is advisory only.
	JSONMode bool
}

// StreamChunk represents a single streaming response fragment.
// Reasoning and Delta are independent channels: a chunk carries text
// for at most one of them.
type StreamChunk struct {
	// Reasoning is an incremental fragment of the model's thinking output.
	Reasoning string

	// Delta is an incremental fragment of the final answer.
	Delta string

	// Done marks the end of the stream.
	Done bool

	// Err reports a mid-stream failure; the stream ends after it.
	Err error
}
