package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eduforge/aigen-api/internal/generation"
)

// ContentCache implements the generation.Cache interface on Redis,
// storing generation results as JSON.
type ContentCache struct {
	client *redis.Client
}

// NewContentCache creates a content cache over the given Redis client.
func NewContentCache(client *redis.Client) *ContentCache {
	if client == nil {
		panic("client cannot be nil")
	}
	return &ContentCache{client: client}
}

// Ensure ContentCache implements generation.Cache interface
var _ generation.Cache = (*ContentCache)(nil)

// Get implements generation.Cache.Get
// It reports whether the key was present and decodes the stored JSON
// into dest when it was. A missing key is not an error.
func (c *ContentCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}

	return true, nil
}

// Set implements generation.Cache.Set
// It stores val as JSON under key for the given TTL.
func (c *ContentCache) Set(ctx context.Context, key string, val any, ttl time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}
