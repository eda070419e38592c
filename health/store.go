package health

import (
	"context"

	"github.com/skinsight/aiguard/cache"
)

// StoreChecker reports the reachability of the backing key-value store.
// An unreachable store is Degraded rather than Unhealthy: the caching and
// rate-limiting layers fail open, so the service keeps working, just
// without caching or enforcement.
type StoreChecker struct {
	name  string
	store cache.Store
}

// NewStoreChecker creates a checker that pings the given store.
func NewStoreChecker(name string, store cache.Store) *StoreChecker {
	if name == "" {
		name = "store"
	}
	return &StoreChecker{name: name, store: store}
}

// Name returns the name of this checker.
func (c *StoreChecker) Name() string {
	return c.name
}

// Check pings the store.
func (c *StoreChecker) Check(ctx context.Context) Result {
	if err := c.store.Ping(ctx); err != nil {
		return Degraded("store unreachable, caching and rate limiting degraded to pass-through").
			WithDetails(map[string]any{"error": err.Error()})
	}
	return Healthy("store reachable")
}

// Ping checks if the store is reachable.
func (c *StoreChecker) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// Ensure StoreChecker implements Checker
var _ Checker = (*StoreChecker)(nil)
