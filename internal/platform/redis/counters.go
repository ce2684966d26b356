package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eduforge/aigen-api/internal/ratelimit"
)

// Counters implements the ratelimit.CounterStore interface on Redis.
// Counters survive process restarts, so a redeploy never resets an
// in-flight rate-limit window.
type Counters struct {
	client *redis.Client
}

// NewCounters creates a counter store over the given Redis client.
func NewCounters(client *redis.Client) *Counters {
	if client == nil {
		panic("client cannot be nil")
	}
	return &Counters{client: client}
}

// Ensure Counters implements ratelimit.CounterStore interface
var _ ratelimit.CounterStore = (*Counters)(nil)

// IncrementWithExpiry implements ratelimit.CounterStore.IncrementWithExpiry
// It increments the counter and starts the expiry window only when the
// key has no TTL yet, so the window begins at the first request and is
// never extended by later ones.
func (c *Counters) IncrementWithExpiry(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := c.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return incr.Val(), nil
}

// Get implements ratelimit.CounterStore.Get
// It returns the current count for key, 0 when the key is absent.
func (c *Counters) Get(ctx context.Context, key string) (int64, error) {
	count, err := c.client.Get(ctx, key).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}
