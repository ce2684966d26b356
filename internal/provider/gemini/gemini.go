// Package gemini implements the provider.Provider interface on top of
// the Google Gen AI Go SDK.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/eduforge/aigen-api/internal/provider"
)

// ID is the identifier this backend registers under.
const ID = "gemini"

const (
	// DefaultModel is used when the configuration names no model.
	DefaultModel = "gemini-2.0-flash"

	defaultTemperature float32 = 0.7
	defaultMaxTokens           = 2000

	// geminiContextWindow is the context window shared by the supported
	// Gemini models.
	geminiContextWindow = 1048576
)

// costPer1KTokens maps model names to USD cost per 1000 tokens.
var costPer1KTokens = map[string]float64{
	"gemini-2.0-flash": 0.0001,
	"gemini-1.5-pro":   0.00125,
}

// Provider calls the Gemini generate-content API.
type Provider struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int
}

var _ provider.Provider = (*Provider)(nil)

// New constructs a Gemini provider from the given configuration. The
// context is used for client construction only.
func New(ctx context.Context, cfg provider.Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini", provider.ErrMissingAPIKey)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Provider{
		client:      client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

// Factory adapts New to the provider.Factory signature.
func Factory(ctx context.Context, cfg provider.Config) (provider.Provider, error) {
	return New(ctx, cfg)
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return ID
}

// GenerateText sends the prompt to the generate-content endpoint and
// normalizes the result. Failures are captured in the Response.
func (p *Provider) GenerateText(ctx context.Context, prompt string, opts provider.Options) provider.Response {
	temperature := p.temperature
	if opts.Temperature > 0 {
		temperature = opts.Temperature
	}

	maxTokens := p.maxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: int32(maxTokens),
	}
	if opts.SystemPrompt != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: opts.SystemPrompt}},
		}
	}

	res, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), genCfg)
	if err != nil {
		return p.failure(err.Error())
	}
	if res == nil || len(res.Candidates) == 0 {
		return p.failure("no candidates in response")
	}

	candidate := res.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return p.failure("content blocked by safety filters")
	}
	if candidate.Content == nil {
		return p.failure("empty content in response")
	}

	var content string
	for _, part := range candidate.Content.Parts {
		content += part.Text
	}

	var tokensUsed, promptTokens, candidateTokens int
	if res.UsageMetadata != nil {
		tokensUsed = int(res.UsageMetadata.TotalTokenCount)
		promptTokens = int(res.UsageMetadata.PromptTokenCount)
		candidateTokens = int(res.UsageMetadata.CandidatesTokenCount)
	}

	return provider.Response{
		Content:      content,
		TokensUsed:   tokensUsed,
		CostEstimate: p.EstimateCost(tokensUsed),
		Provider:     ID,
		Model:        p.model,
		Success:      true,
		Metadata: map[string]any{
			"finish_reason":    string(candidate.FinishReason),
			"prompt_tokens":    promptTokens,
			"candidate_tokens": candidateTokens,
		},
	}
}

// EstimateCost converts a token count into USD using the configured
// model's rate. Unknown models fall back to gemini-2.0-flash pricing.
func (p *Provider) EstimateCost(tokens int) float64 {
	costPer1K, ok := costPer1KTokens[p.model]
	if !ok {
		costPer1K = costPer1KTokens[DefaultModel]
	}
	return float64(tokens) / 1000 * costPer1K
}

// MaxTokens reports the context window of the configured model.
func (p *Provider) MaxTokens() int {
	return geminiContextWindow
}

// ValidateConfig issues a one-token generation to verify the API key
// and model are usable.
func (p *Provider) ValidateConfig(ctx context.Context) error {
	_, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text("test"), &genai.GenerateContentConfig{
		MaxOutputTokens: 1,
	})
	if err != nil {
		return fmt.Errorf("gemini config validation failed: %w", err)
	}
	return nil
}

func (p *Provider) failure(message string) provider.Response {
	return provider.Response{
		Provider:     ID,
		Model:        p.model,
		Success:      false,
		ErrorMessage: message,
	}
}
