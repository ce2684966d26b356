package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/eduforge/aigen-api/internal/provider"
)

// newStubProvider builds a provider whose client talks to the given
// handler instead of the real API.
func newStubProvider(t *testing.T, model string, handler http.HandlerFunc) *Provider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	ctx := context.Background()
	p, err := New(ctx, provider.Config{APIKey: "test-key", Model: model})
	require.NoError(t, err)

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  "test-key",
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: srv.URL,
		},
	})
	require.NoError(t, err)
	p.client = client
	return p
}

const successBody = `{
	"candidates": [
		{
			"content": {"parts": [{"text": "Generated flashcards"}], "role": "model"},
			"finishReason": "STOP"
		}
	],
	"usageMetadata": {"promptTokenCount": 20, "candidatesTokenCount": 40, "totalTokenCount": 60}
}`

func TestNewRequiresAPIKey(t *testing.T) {
	t.Parallel()

	p, err := New(context.Background(), provider.Config{Model: "gemini-1.5-pro"})

	assert.Nil(t, p)
	assert.ErrorIs(t, err, provider.ErrMissingAPIKey)
}

func TestNewAppliesDefaults(t *testing.T) {
	t.Parallel()

	p, err := New(context.Background(), provider.Config{APIKey: "test-key"})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, p.model)
	assert.InDelta(t, 0.7, p.temperature, 0.0001)
	assert.Equal(t, 2000, p.maxTokens)
	assert.Equal(t, ID, p.Name())
}

func TestGenerateTextSuccess(t *testing.T) {
	t.Parallel()

	p := newStubProvider(t, "gemini-2.0-flash", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(successBody))
	})

	resp := p.GenerateText(context.Background(), "Create flashcards", provider.Options{
		SystemPrompt: "You are an educational content creator.",
		Temperature:  0.5,
		MaxTokens:    1500,
	})

	assert.True(t, resp.Success)
	assert.Empty(t, resp.ErrorMessage)
	assert.Equal(t, "Generated flashcards", resp.Content)
	assert.Equal(t, 60, resp.TokensUsed)
	assert.InDelta(t, 0.000006, resp.CostEstimate, 1e-12)
	assert.Equal(t, ID, resp.Provider)
	assert.Equal(t, "gemini-2.0-flash", resp.Model)
	assert.Equal(t, "STOP", resp.Metadata["finish_reason"])
	assert.Equal(t, 20, resp.Metadata["prompt_tokens"])
	assert.Equal(t, 40, resp.Metadata["candidate_tokens"])
}

func TestGenerateTextAPIError(t *testing.T) {
	t.Parallel()

	p := newStubProvider(t, "gemini-2.0-flash", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"}}`))
	})

	resp := p.GenerateText(context.Background(), "hello", provider.Options{})

	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.ErrorMessage)
	assert.Empty(t, resp.Content)
	assert.Zero(t, resp.TokensUsed)
	assert.Equal(t, ID, resp.Provider)
}

func TestGenerateTextNoCandidates(t *testing.T) {
	t.Parallel()

	p := newStubProvider(t, "gemini-2.0-flash", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": []}`))
	})

	resp := p.GenerateText(context.Background(), "hello", provider.Options{})

	assert.False(t, resp.Success)
	assert.Equal(t, "no candidates in response", resp.ErrorMessage)
}

func TestGenerateTextSafetyBlocked(t *testing.T) {
	t.Parallel()

	p := newStubProvider(t, "gemini-2.0-flash", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [
				{"content": {"parts": [], "role": "model"}, "finishReason": "SAFETY"}
			]
		}`))
	})

	resp := p.GenerateText(context.Background(), "hello", provider.Options{})

	assert.False(t, resp.Success)
	assert.Equal(t, "content blocked by safety filters", resp.ErrorMessage)
}

func TestEstimateCost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		model    string
		tokens   int
		expected float64
	}{
		{"gemini-2.0-flash", 1000, 0.0001},
		{"gemini-1.5-pro", 1000, 0.00125},
		{"unknown-model", 1000, 0.0001},
	}

	for _, tt := range tests {
		p, err := New(context.Background(), provider.Config{APIKey: "test-key", Model: tt.model})
		require.NoError(t, err)
		assert.InDelta(t, tt.expected, p.EstimateCost(tt.tokens), 1e-12, "model %s", tt.model)
	}
}

func TestMaxTokens(t *testing.T) {
	t.Parallel()

	p, err := New(context.Background(), provider.Config{APIKey: "test-key", Model: "gemini-1.5-pro"})
	require.NoError(t, err)

	assert.Equal(t, 1048576, p.MaxTokens())
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	p := newStubProvider(t, "gemini-2.0-flash", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(successBody))
	})

	assert.NoError(t, p.ValidateConfig(context.Background()))
}

func TestValidateConfigBadCredentials(t *testing.T) {
	t.Parallel()

	p := newStubProvider(t, "gemini-2.0-flash", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"code": 401, "message": "API key not valid", "status": "UNAUTHENTICATED"}}`))
	})

	err := p.ValidateConfig(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini config validation failed")
}
