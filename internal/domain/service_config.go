package domain

import (
	"errors"
	"time"
)

// Common validation errors for ServiceConfig
var (
	ErrEmptyConfigProvider = errors.New("service config provider cannot be empty")
	ErrEmptyConfigModel    = errors.New("service config model cannot be empty")
	ErrInvalidTemperature  = errors.New("temperature must be between 0 and 2")
	ErrInvalidMaxTokens    = errors.New("max tokens must be greater than 0")
)

// Fallback backend used by every service when the primary provider
// cannot be constructed or fails its configuration check.
const (
	FallbackProviderID = "anthropic"
	FallbackModelID    = "claude-3-haiku-20240307"
)

// ServiceConfig holds the per-service provider settings. A missing row
// falls back to DefaultServiceConfig; a present-but-disabled row blocks
// the service entirely.
type ServiceConfig struct {
	Kind             ServiceKind `json:"service_name"`
	Enabled          bool        `json:"is_enabled"`
	Provider         string      `json:"provider"`
	Model            string      `json:"model"`
	FallbackProvider string      `json:"fallback_provider"`
	FallbackModel    string      `json:"fallback_model"`
	Temperature      float32     `json:"temperature"`
	MaxTokens        int         `json:"max_tokens"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// DefaultServiceConfig returns the built-in settings for a service kind,
// used when no configuration row exists. Unknown kinds get the quiz
// generation defaults.
func DefaultServiceConfig(kind ServiceKind) ServiceConfig {
	cfg := ServiceConfig{
		Kind:             kind,
		Enabled:          true,
		Provider:         "openai",
		Model:            "gpt-3.5-turbo",
		FallbackProvider: FallbackProviderID,
		FallbackModel:    FallbackModelID,
		Temperature:      0.7,
		MaxTokens:        2000,
	}

	switch kind {
	case ServiceLessonSummary:
		cfg.Temperature = 0.3
		cfg.MaxTokens = 1000
	case ServiceFlashcardGeneration:
		cfg.Temperature = 0.5
		cfg.MaxTokens = 1500
	}

	return cfg
}

// Validate checks if the ServiceConfig has valid data.
// Returns an error if any field fails validation.
func (c *ServiceConfig) Validate() error {
	if !c.Kind.Valid() {
		return ErrInvalidServiceKind
	}

	if c.Provider == "" {
		return ErrEmptyConfigProvider
	}

	if c.Model == "" {
		return ErrEmptyConfigModel
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return ErrInvalidTemperature
	}

	if c.MaxTokens <= 0 {
		return ErrInvalidMaxTokens
	}

	return nil
}
