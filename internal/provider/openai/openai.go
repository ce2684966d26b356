// Package openai implements the provider.Provider interface on top of
// the official OpenAI Go SDK.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/eduforge/aigen-api/internal/provider"
)

// ID is the identifier this backend registers under.
const ID = "openai"

const (
	// DefaultModel is used when the configuration names no model.
	DefaultModel = "gpt-3.5-turbo"

	defaultTemperature float32 = 0.7
	defaultMaxTokens           = 2000
)

// costPer1KTokens maps model names to USD cost per 1000 tokens.
var costPer1KTokens = map[string]float64{
	"gpt-3.5-turbo": 0.002,
	"gpt-4":         0.03,
	"gpt-4-turbo":   0.01,
}

// modelMaxTokens maps model names to their context window sizes.
var modelMaxTokens = map[string]int{
	"gpt-3.5-turbo": 4096,
	"gpt-4":         8192,
	"gpt-4-turbo":   128000,
}

// Provider calls the OpenAI chat completions API.
type Provider struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

var _ provider.Provider = (*Provider)(nil)

// New constructs an OpenAI provider from the given configuration.
func New(cfg provider.Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai", provider.ErrMissingAPIKey)
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

	client := openai.NewClient(option.WithAPIKey(cfg.APIKey))

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

// GenerateText sends the prompt to the chat completions endpoint and
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

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if opts.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(opts.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(prompt))

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(p.model),
		Messages:    messages,
		Temperature: openai.Float(float64(temperature)),
		MaxTokens:   openai.Int(int64(maxTokens)),
	})
	if err != nil {
		return p.failure(err.Error())
	}
	if len(completion.Choices) == 0 {
		return p.failure("no choices in response")
	}

	choice := completion.Choices[0]
	tokensUsed := int(completion.Usage.TotalTokens)

	return provider.Response{
		Content:      choice.Message.Content,
		TokensUsed:   tokensUsed,
		CostEstimate: p.EstimateCost(tokensUsed),
		Provider:     ID,
		Model:        p.model,
		Success:      true,
		Metadata: map[string]any{
			"finish_reason":     string(choice.FinishReason),
			"prompt_tokens":     int(completion.Usage.PromptTokens),
			"completion_tokens": int(completion.Usage.CompletionTokens),
		},
	}
}

// EstimateCost converts a token count into USD using the configured
// model's rate. Unknown models fall back to gpt-3.5-turbo pricing.
func (p *Provider) EstimateCost(tokens int) float64 {
	costPer1K, ok := costPer1KTokens[p.model]
	if !ok {
		costPer1K = costPer1KTokens[DefaultModel]
	}
	return float64(tokens) / 1000 * costPer1K
}

// MaxTokens reports the context window of the configured model.
func (p *Provider) MaxTokens() int {
	maxTokens, ok := modelMaxTokens[p.model]
	if !ok {
		return modelMaxTokens[DefaultModel]
	}
	return maxTokens
}

// ValidateConfig issues a one-token completion to verify the API key
// and model are usable.
func (p *Provider) ValidateConfig(ctx context.Context) error {
	_, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage("test"),
		},
		MaxTokens: openai.Int(1),
	})
	if err != nil {
		return fmt.Errorf("openai config validation failed: %w", err)
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
