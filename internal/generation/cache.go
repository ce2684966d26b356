package generation

import (
	"context"
	"time"
)

// Cache stores finished generation results keyed by their request
// parameters. Get reports whether the key was present and, when it was,
// decodes the stored value into dest. Cache failures are treated as
// misses by the service, never as generation failures.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
}
