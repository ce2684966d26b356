// Package provider defines the abstraction over AI text-generation
// backends. Each backend lives in its own subpackage (openai, anthropic,
// gemini) and is constructed through the Registry, so the generation
// service never depends on a concrete vendor SDK.
package provider

import "context"

// Response is the normalized result of a text-generation call. Backend
// failures are carried inside the value (Success false plus
// ErrorMessage) rather than as a Go error, so callers always receive
// token and cost accounting in one shape.
type Response struct {
	Content      string         `json:"content"`
	TokensUsed   int            `json:"tokens_used"`
	CostEstimate float64        `json:"cost_estimate"`
	Provider     string         `json:"provider"`
	Model        string         `json:"model"`
	Success      bool           `json:"success"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// Options carries per-call overrides for a generation request. Zero
// values mean "use the provider's configured default".
type Options struct {
	SystemPrompt string
	Temperature  float32
	MaxTokens    int
}

// Config holds the settings needed to construct a provider instance.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
}

// Provider generates text through one AI backend.
//
// Implementations must be safe for concurrent use.
type Provider interface {
	// GenerateText sends the prompt to the backend and returns the
	// normalized response. Any backend failure, including context
	// cancellation, is captured in the Response; the method never
	// panics and never returns a Go error.
	GenerateText(ctx context.Context, prompt string, opts Options) Response

	// EstimateCost converts a token count into an estimated dollar
	// cost using the configured model's pricing.
	EstimateCost(tokens int) float64

	// MaxTokens reports the context window size of the configured model.
	MaxTokens() int

	// ValidateConfig performs a minimal live call against the backend
	// to verify that the credentials and model are usable.
	ValidateConfig(ctx context.Context) error

	// Name returns the stable provider identifier, e.g. "openai".
	Name() string
}
