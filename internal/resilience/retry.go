package resilience

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Retry defaults.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
	DefaultMaxDelay    = 60 * time.Second
)

// ErrRetriesExhausted wraps the final failure once every attempt has
// been used.
var ErrRetriesExhausted = errors.New("retries exhausted")

// nonRetryableMarkers classify backend error text that retrying cannot
// fix: credential problems and quota or rate exhaustion.
var nonRetryableMarkers = []string{
	"authentication",
	"unauthorized",
	"invalid api key",
	"permission denied",
	"quota",
	"rate limit",
	"too many requests",
}

// permanentError marks an error that must never be retried.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}

// Permanent marks err as non-retryable. Retryable reports false for the
// result, and errors.Is/As still reach the underlying error.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retryable reports whether err is worth another attempt. Context
// errors, errors marked Permanent, and errors whose text matches a
// non-retryable marker are terminal.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pErr *permanentError
	if errors.As(err, &pErr) {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range nonRetryableMarkers {
		if strings.Contains(msg, marker) {
			return false
		}
	}

	return true
}

// RetryPolicy retries an operation with exponential backoff between
// attempts. The zero value is usable and behaves like NewRetryPolicy().
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// NewRetryPolicy returns the default policy: 3 attempts, 1s base delay,
// 60s delay cap.
func NewRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
	}
}

// Do runs fn until it succeeds, fails terminally, or MaxAttempts is
// reached. The first attempt runs immediately; the delay before retry n
// is min(BaseDelay * 2^(n-1), MaxDelay). Backoff sleeps abort as soon as
// ctx is done. When every attempt fails, the returned error matches
// ErrRetriesExhausted and still unwraps to the final cause.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	baseDelay := p.BaseDelay
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(backoffDelay(baseDelay, maxDelay, attempt-1)):
			case <-ctx.Done():
				return fmt.Errorf("retry aborted: %w", ctx.Err())
			}
		}

		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}

		if !Retryable(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, maxAttempts, lastErr)
}

// backoffDelay computes min(base * 2^(retry-1), max) without overflow.
func backoffDelay(base, max time.Duration, retry int) time.Duration {
	delay := base
	for i := 1; i < retry; i++ {
		delay *= 2
		if delay >= max {
			return max
		}
	}
	if delay > max {
		return max
	}
	return delay
}
