package driven

import "context"

// CompletionService provides text completion for outline synthesis and
// section drafting. It is the consumed interface over the external
// language model.
//
// Implementations may include:
//   - Anthropic (Claude)
//   - Ollama (local models)
type CompletionService interface {
	// Generate produces a completion for the prompt. The context
	// carries the caller's timeout; a deadline error is a completion
	// failure like any other.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// GenerateStream produces a completion, invoking onDelta with each
	// incremental text fragment before returning the full text.
	// Implementations without native streaming may invoke onDelta once
	// with the whole completion.
	GenerateStream(ctx context.Context, prompt string, opts GenerateOptions, onDelta func(string)) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// System is an optional system prompt.
	System string
}
