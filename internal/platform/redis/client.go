// Package redis provides the Redis-backed implementations of the
// rate-limit counter store and the generation result cache.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eduforge/aigen-api/internal/config"
)

// pingTimeout bounds the connection check performed by NewClient.
const pingTimeout = 5 * time.Second

// NewClient creates a Redis client from the given configuration and
// verifies connectivity with a ping before returning it.
func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
