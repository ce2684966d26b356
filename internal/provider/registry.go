package provider

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Factory constructs a Provider from a Config. The context is used for
// client construction only, not for later generation calls.
type Factory func(ctx context.Context, cfg Config) (Provider, error)

// Registry maps provider identifiers to factories. Backends register
// themselves at process startup; lookups happen on every generation
// request, so reads take the shared lock.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory under the given identifier, replacing any
// previous registration for the same id.
func (r *Registry) Register(id string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[id] = f
}

// Create builds a provider instance for the given identifier.
// Returns ErrUnknownProvider when no factory is registered for id.
func (r *Registry) Create(ctx context.Context, id string, cfg Config) (Provider, error) {
	r.mu.RLock()
	factory, ok := r.factories[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, id)
	}

	return factory(ctx, cfg)
}

// Available returns the registered provider identifiers in sorted order.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
