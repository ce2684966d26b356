package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package. Handlers map these
// to HTTP statuses; everything quota- or configuration-shaped is
// terminal and never retried.
var (
	// ErrQuotaExceeded is returned when the user's monthly quota for the
	// service kind is used up.
	ErrQuotaExceeded = errors.New("monthly limit exceeded")

	// ErrRateLimited is returned when the hourly request cap is hit. A
	// RateLimitedError carrying the retry hint wraps this sentinel.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrServiceDisabled is returned when the service kind is switched
	// off in its configuration row.
	ErrServiceDisabled = errors.New("service is disabled")

	// ErrNoProviderAvailable is returned when neither the primary nor
	// the fallback provider could be constructed.
	ErrNoProviderAvailable = errors.New("no working AI provider available")

	// ErrGenerationFailed wraps provider-path failures: exhausted
	// retries, open circuits, and terminal backend errors.
	ErrGenerationFailed = errors.New("AI generation failed")

	// ErrInvalidFormat is returned when the generated text lacks the
	// required structure. Distinct from ErrGenerationFailed so callers
	// can re-prompt instead of backing off.
	ErrInvalidFormat = errors.New("invalid generated content format")
)

// RateLimitedError is the detail form of ErrRateLimited: it keeps the
// tracker's denial reason and the seconds until the window resets.
type RateLimitedError struct {
	Reason     string
	RetryAfter int
}

func (e *RateLimitedError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("rate limit exceeded, retry after %ds", e.RetryAfter)
}

func (e *RateLimitedError) Unwrap() error {
	return ErrRateLimited
}
