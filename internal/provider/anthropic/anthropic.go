// Package anthropic implements the provider.Provider interface on top
// of the official Anthropic Go SDK.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/eduforge/aigen-api/internal/provider"
)

// ID is the identifier this backend registers under.
const ID = "anthropic"

const (
	// DefaultModel is used when the configuration names no model.
	DefaultModel = "claude-3-haiku-20240307"

	defaultTemperature float32 = 0.7
	defaultMaxTokens           = 2000

	// claudeContextWindow is the context window shared by all Claude 3
	// models.
	claudeContextWindow = 200000
)

// costPer1KTokens maps model names to USD cost per 1000 tokens.
var costPer1KTokens = map[string]float64{
	"claude-3-haiku-20240307":  0.00025,
	"claude-3-sonnet-20240229": 0.003,
	"claude-3-opus-20240229":   0.015,
}

// Provider calls the Anthropic messages API.
type Provider struct {
	client      *anthropic.Client
	model       string
	temperature float32
	maxTokens   int
}

var _ provider.Provider = (*Provider)(nil)

// New constructs an Anthropic provider from the given configuration.
func New(cfg provider.Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: anthropic", provider.ErrMissingAPIKey)
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

	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))

	return &Provider{
		client:      &client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

// Factory adapts New to the provider.Factory signature.
func Factory(ctx context.Context, cfg provider.Config) (provider.Provider, error) {
	return New(cfg)
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return ID
}

// GenerateText sends the prompt to the messages endpoint and normalizes
// the result. Failures are captured in the Response.
func (p *Provider) GenerateText(ctx context.Context, prompt string, opts provider.Options) provider.Response {
	temperature := p.temperature
	if opts.Temperature > 0 {
		temperature = opts.Temperature
	}

	maxTokens := p.maxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(float64(temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if opts.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: opts.SystemPrompt}}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return p.failure(err.Error())
	}
	if len(msg.Content) == 0 {
		return p.failure("no content in response")
	}

	var content string
	for _, block := range msg.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			content += text.Text
		}
	}

	tokensUsed := int(msg.Usage.InputTokens + msg.Usage.OutputTokens)

	return provider.Response{
		Content:      content,
		TokensUsed:   tokensUsed,
		CostEstimate: p.EstimateCost(tokensUsed),
		Provider:     ID,
		Model:        p.model,
		Success:      true,
		Metadata: map[string]any{
			"input_tokens":  int(msg.Usage.InputTokens),
			"output_tokens": int(msg.Usage.OutputTokens),
			"stop_reason":   string(msg.StopReason),
		},
	}
}

// EstimateCost converts a token count into USD using the configured
// model's rate. Unknown models fall back to claude-3-haiku pricing.
func (p *Provider) EstimateCost(tokens int) float64 {
	costPer1K, ok := costPer1KTokens[p.model]
	if !ok {
		costPer1K = costPer1KTokens[DefaultModel]
	}
	return float64(tokens) / 1000 * costPer1K
}

// MaxTokens reports the context window of the configured model.
func (p *Provider) MaxTokens() int {
	return claudeContextWindow
}

// ValidateConfig issues a one-token message to verify the API key and
// model are usable.
func (p *Provider) ValidateConfig(ctx context.Context) error {
	_, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("test")),
		},
	})
	if err != nil {
		return fmt.Errorf("anthropic config validation failed: %w", err)
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
