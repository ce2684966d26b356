// Package ratelimit enforces the fixed-window per-user request cap that
// sits in front of the monthly usage quota.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eduforge/aigen-api/internal/domain"
)

// Defaults applied when the configuration carries no overrides.
const (
	DefaultLimit  = 10
	DefaultWindow = time.Hour
)

// keyPrefix matches the platform's existing counter key layout, so
// counters written before a deploy keep counting after it.
const keyPrefix = "ai_rate_limit"

// CounterStore is the atomic counter backend. The Redis implementation
// lives in internal/platform/redis.
type CounterStore interface {
	// IncrementWithExpiry atomically increments the counter at key and
	// starts the expiry window if the key did not exist yet.
	// Returns the post-increment count.
	IncrementWithExpiry(ctx context.Context, key string, window time.Duration) (int64, error)

	// Get returns the current count for key, 0 when absent.
	Get(ctx context.Context, key string) (int64, error)
}

// Limiter rejects a user's requests for a service once they exceed the
// configured count inside one fixed window. Rejected attempts still
// increment the counter; the window itself only starts at the first
// attempt after expiry.
type Limiter struct {
	store  CounterStore
	limit  int64
	window time.Duration
}

// NewLimiter creates a Limiter over the given counter store.
// Non-positive limit or window values fall back to the defaults.
func NewLimiter(store CounterStore, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		store:  store,
		limit:  int64(limit),
		window: window,
	}
}

// Key returns the counter key for a user and service kind.
func Key(userID uuid.UUID, kind domain.ServiceKind) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, userID, kind)
}

// Allow records one attempt for the user and service and reports whether
// it fits inside the current window.
func (l *Limiter) Allow(ctx context.Context, userID uuid.UUID, kind domain.ServiceKind) (bool, error) {
	count, err := l.store.IncrementWithExpiry(ctx, Key(userID, kind), l.window)
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	return count <= l.limit, nil
}

// Usage returns the number of attempts recorded in the current window
// without recording a new one.
func (l *Limiter) Usage(ctx context.Context, userID uuid.UUID, kind domain.ServiceKind) (int64, error) {
	count, err := l.store.Get(ctx, Key(userID, kind))
	if err != nil {
		return 0, fmt.Errorf("rate limit usage lookup failed: %w", err)
	}
	return count, nil
}

// Limit returns the configured per-window cap.
func (l *Limiter) Limit() int {
	return int(l.limit)
}

// Window returns the configured window length, used for Retry-After
// reporting on rejections.
func (l *Limiter) Window() time.Duration {
	return l.window
}
