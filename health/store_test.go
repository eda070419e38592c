package health

import (
	"context"
	"testing"
	"time"

	"github.com/skinsight/aiguard/cache"
)

// downStore is always unreachable.
type downStore struct{}

func (downStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, cache.ErrUnavailable
}

func (downStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return cache.ErrUnavailable
}

func (downStore) Delete(ctx context.Context, key string) error {
	return cache.ErrUnavailable
}

func (downStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	return 0, cache.ErrUnavailable
}

func (downStore) Ping(ctx context.Context) error {
	return cache.ErrUnavailable
}

func TestStoreChecker_Reachable(t *testing.T) {
	checker := NewStoreChecker("store", cache.NewMemoryStore())

	result := checker.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("status = %v, want healthy", result.Status)
	}
}

func TestStoreChecker_Unreachable(t *testing.T) {
	checker := NewStoreChecker("store", downStore{})

	// The core fails open, so a dead store degrades rather than kills.
	result := checker.Check(context.Background())
	if result.Status != StatusDegraded {
		t.Errorf("status = %v, want degraded", result.Status)
	}
	if result.Details["error"] == nil {
		t.Error("degraded result should carry the underlying error")
	}
}

func TestStoreChecker_DefaultName(t *testing.T) {
	if got := NewStoreChecker("", cache.NewMemoryStore()).Name(); got != "store" {
		t.Errorf("Name() = %q, want store", got)
	}
}

// Ensure downStore implements cache.Store
var _ cache.Store = downStore{}
