package mocks

import (
	"context"
	"sync"

	"github.com/eduforge/aigen-api/internal/provider"
)

// MockProvider implements provider.Provider for testing
type MockProvider struct {
	// Function fields for customizable behavior
	GenerateTextFn   func(ctx context.Context, prompt string, opts provider.Options) provider.Response
	EstimateCostFn   func(tokens int) float64
	MaxTokensFn      func() int
	ValidateConfigFn func(ctx context.Context) error
	NameFn           func() string

	// Call recording for assertions
	mu                sync.Mutex
	GenerateTextCalls int
	LastPrompt        string
	LastOptions       provider.Options
}

// NewMockProvider creates a mock provider whose defaults succeed.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// GenerateText implements the Provider interface
func (m *MockProvider) GenerateText(ctx context.Context, prompt string, opts provider.Options) provider.Response {
	m.mu.Lock()
	m.GenerateTextCalls++
	m.LastPrompt = prompt
	m.LastOptions = opts
	m.mu.Unlock()

	if m.GenerateTextFn != nil {
		return m.GenerateTextFn(ctx, prompt, opts)
	}

	return provider.Response{
		Content:      `{"mock": true}`,
		TokensUsed:   100,
		CostEstimate: 0.0002,
		Provider:     m.Name(),
		Model:        "mock-model",
		Success:      true,
	}
}

// EstimateCost implements the Provider interface
func (m *MockProvider) EstimateCost(tokens int) float64 {
	if m.EstimateCostFn != nil {
		return m.EstimateCostFn(tokens)
	}
	return float64(tokens) / 1000 * 0.002
}

// MaxTokens implements the Provider interface
func (m *MockProvider) MaxTokens() int {
	if m.MaxTokensFn != nil {
		return m.MaxTokensFn()
	}
	return 4096
}

// ValidateConfig implements the Provider interface
func (m *MockProvider) ValidateConfig(ctx context.Context) error {
	if m.ValidateConfigFn != nil {
		return m.ValidateConfigFn(ctx)
	}
	return nil
}

// Name implements the Provider interface
func (m *MockProvider) Name() string {
	if m.NameFn != nil {
		return m.NameFn()
	}
	return "mock"
}

// Calls returns how many times GenerateText ran.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.GenerateTextCalls
}
