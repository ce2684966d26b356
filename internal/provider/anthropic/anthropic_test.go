package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduforge/aigen-api/internal/provider"
)

// newStubProvider builds a provider whose client talks to the given
// handler instead of the real API.
func newStubProvider(t *testing.T, model string, handler http.HandlerFunc) *Provider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := New(provider.Config{APIKey: "test-key", Model: model})
	require.NoError(t, err)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(srv.URL),
		option.WithMaxRetries(0),
	)
	p.client = &client
	return p
}

func messageBody(text string, inputTokens, outputTokens int) string {
	payload := map[string]any{
		"id":    "msg_123",
		"type":  "message",
		"role":  "assistant",
		"model": "claude-3-haiku-20240307",
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
		"stop_reason": "end_turn",
		"usage": map[string]any{
			"input_tokens":  inputTokens,
			"output_tokens": outputTokens,
		},
	}
	b, _ := json.Marshal(payload)
	return string(b)
}

func TestNewRequiresAPIKey(t *testing.T) {
	t.Parallel()

	p, err := New(provider.Config{Model: "claude-3-opus-20240229"})

	assert.Nil(t, p)
	assert.ErrorIs(t, err, provider.ErrMissingAPIKey)
}

func TestNewAppliesDefaults(t *testing.T) {
	t.Parallel()

	p, err := New(provider.Config{APIKey: "test-key"})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, p.model)
	assert.InDelta(t, 0.7, p.temperature, 0.0001)
	assert.Equal(t, 2000, p.maxTokens)
	assert.Equal(t, ID, p.Name())
}

func TestGenerateTextSuccess(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	p := newStubProvider(t, "claude-3-haiku-20240307", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messageBody("Generated summary content", 30, 45)))
	})

	resp := p.GenerateText(context.Background(), "Summarize this lesson", provider.Options{
		SystemPrompt: "You are an educational content creator.",
		Temperature:  0.3,
		MaxTokens:    1000,
	})

	assert.True(t, resp.Success)
	assert.Empty(t, resp.ErrorMessage)
	assert.Equal(t, "Generated summary content", resp.Content)
	assert.Equal(t, 75, resp.TokensUsed)
	assert.InDelta(t, 0.00001875, resp.CostEstimate, 1e-12)
	assert.Equal(t, ID, resp.Provider)
	assert.Equal(t, "claude-3-haiku-20240307", resp.Model)
	assert.Equal(t, 30, resp.Metadata["input_tokens"])
	assert.Equal(t, 45, resp.Metadata["output_tokens"])
	assert.Equal(t, "end_turn", resp.Metadata["stop_reason"])

	// The request carried the overrides and the system prompt.
	require.NotNil(t, captured)
	assert.InDelta(t, 0.3, captured["temperature"].(float64), 0.0001)
	assert.InDelta(t, 1000, captured["max_tokens"].(float64), 0.0001)
	require.NotNil(t, captured["system"])
	messages := captured["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
}

func TestGenerateTextOmitsSystemWhenEmpty(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	p := newStubProvider(t, "claude-3-haiku-20240307", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messageBody("ok", 1, 1)))
	})

	resp := p.GenerateText(context.Background(), "hello", provider.Options{})

	assert.True(t, resp.Success)
	_, hasSystem := captured["system"]
	assert.False(t, hasSystem)
}

func TestGenerateTextConcatenatesTextBlocks(t *testing.T) {
	t.Parallel()

	p := newStubProvider(t, "claude-3-haiku-20240307", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_123", "type": "message", "role": "assistant",
			"model": "claude-3-haiku-20240307",
			"content": [
				{"type": "text", "text": "part one "},
				{"type": "text", "text": "part two"}
			],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 5, "output_tokens": 5}
		}`))
	})

	resp := p.GenerateText(context.Background(), "hello", provider.Options{})

	assert.True(t, resp.Success)
	assert.Equal(t, "part one part two", resp.Content)
}

func TestGenerateTextAPIError(t *testing.T) {
	t.Parallel()

	p := newStubProvider(t, "claude-3-opus-20240229", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "invalid_request_error", "message": "invalid request"}}`))
	})

	resp := p.GenerateText(context.Background(), "hello", provider.Options{})

	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.ErrorMessage)
	assert.Empty(t, resp.Content)
	assert.Zero(t, resp.TokensUsed)
	assert.Equal(t, ID, resp.Provider)
	assert.Equal(t, "claude-3-opus-20240229", resp.Model)
}

func TestGenerateTextEmptyContent(t *testing.T) {
	t.Parallel()

	p := newStubProvider(t, "claude-3-haiku-20240307", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_123", "type": "message", "role": "assistant",
			"model": "claude-3-haiku-20240307",
			"content": [], "stop_reason": "end_turn",
			"usage": {"input_tokens": 1, "output_tokens": 0}
		}`))
	})

	resp := p.GenerateText(context.Background(), "hello", provider.Options{})

	assert.False(t, resp.Success)
	assert.Equal(t, "no content in response", resp.ErrorMessage)
}

func TestEstimateCost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		model    string
		tokens   int
		expected float64
	}{
		{"claude-3-haiku-20240307", 1000, 0.00025},
		{"claude-3-sonnet-20240229", 1000, 0.003},
		{"claude-3-opus-20240229", 2000, 0.03},
		{"unknown-model", 1000, 0.00025},
	}

	for _, tt := range tests {
		p, err := New(provider.Config{APIKey: "test-key", Model: tt.model})
		require.NoError(t, err)
		assert.InDelta(t, tt.expected, p.EstimateCost(tt.tokens), 1e-12, "model %s", tt.model)
	}
}

func TestMaxTokens(t *testing.T) {
	t.Parallel()

	for _, model := range []string{
		"claude-3-haiku-20240307",
		"claude-3-sonnet-20240229",
		"claude-3-opus-20240229",
		"unknown-model",
	} {
		p, err := New(provider.Config{APIKey: "test-key", Model: model})
		require.NoError(t, err)
		assert.Equal(t, 200000, p.MaxTokens(), "model %s", model)
	}
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	p := newStubProvider(t, "claude-3-haiku-20240307", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messageBody("ok", 1, 1)))
	})

	assert.NoError(t, p.ValidateConfig(context.Background()))
}

func TestValidateConfigBadCredentials(t *testing.T) {
	t.Parallel()

	p := newStubProvider(t, "claude-3-haiku-20240307", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "authentication_error", "message": "invalid api key"}}`))
	})

	err := p.ValidateConfig(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic config validation failed")
}
