package driven

import "context"

// LLMService is the text-in/text-out contract with a generative backend.
//
// Implementations may include:
//   - Google Gemini (generativelanguage REST API)
//   - any endpoint speaking a compatible prompt/response shape
type LLMService interface {
	// Generate sends a single prompt and returns the raw response text.
	// The response is expected to contain JSON, possibly fenced in
	// markdown, possibly malformed; parsing is the caller's concern.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// GenerateOptions configures one generation request.
type GenerateOptions struct {
	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// MaxOutputTokens bounds the response size.
	MaxOutputTokens int

	// SystemInstruction steers the response format.
	SystemInstruction string
}
