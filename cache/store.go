package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for store operations.
var (
	// ErrUnavailable wraps any transport or infrastructure failure reaching
	// the backing store. Callers treat it as a miss/no-op, never as a hard
	// failure.
	ErrUnavailable = errors.New("cache: store unavailable")

	// ErrNilStore is returned when a client is constructed without a store.
	ErrNilStore = errors.New("cache: store is nil")

	// ErrTypeMismatch is returned when concurrent deduped calls for the same
	// key requested different result types.
	ErrTypeMismatch = errors.New("cache: deduped producers disagree on result type")
)

// Store is the interface over the shared key-value store backing both
// cached values and rate-limit counters.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: methods must honor cancellation/deadlines.
// - Errors: transport failures must be reported wrapped in ErrUnavailable;
//   a plain miss is (nil, false, nil), never an error.
type Store interface {
	// Get retrieves a stored value. Returns (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. TTL<=0 means no caching.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a stored value. Idempotent - no error on miss.
	Delete(ctx context.Context, key string) error

	// Increment atomically increments the counter at key and returns the new
	// count. The TTL is applied only when the key is created, bounding the
	// counter's lifetime to one rate-limit window.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}

// KeyScanner is implemented by stores that can enumerate keys by pattern.
// Patterns follow Redis glob syntax; only trailing-* prefix patterns are
// required by this module.
type KeyScanner interface {
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
}
