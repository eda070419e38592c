package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultOpTimeout bounds each store round-trip so a hung connection
// surfaces as ErrUnavailable instead of stalling the caller.
const DefaultOpTimeout = 2 * time.Second

// RedisStore is a Store backed by a Redis server. It is the production
// implementation: the Redis instance is the sole shared state across
// stateless application replicas.
type RedisStore struct {
	client    *redis.Client
	opTimeout time.Duration
}

// NewRedisStore creates a Redis-backed store. opTimeout bounds each
// operation; zero selects DefaultOpTimeout.
func NewRedisStore(client *redis.Client, opTimeout time.Duration) *RedisStore {
	if opTimeout <= 0 {
		opTimeout = DefaultOpTimeout
	}
	return &RedisStore{
		client:    client,
		opTimeout: opTimeout,
	}
}

func (s *RedisStore) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, err)
}

// Get retrieves a value. A redis.Nil reply is a plain miss, not an error.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	val, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	} else if err != nil {
		return nil, false, unavailable(err)
	}

	return val, true, nil
}

// Set stores a value with the given TTL. TTL<=0 means no caching.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

// Delete removes a value. Idempotent - no error on miss.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

// Increment atomically increments the counter at key via INCR. When the
// increment created the key (count == 1) the window TTL is attached with a
// follow-up EXPIRE; the INCR itself is the atomicity-critical step, so
// concurrent increments never undercount.
func (s *RedisStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, unavailable(err)
	}

	if count == 1 && ttl > 0 {
		if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
			return count, unavailable(err)
		}
	}

	return count, nil
}

// Ping reports whether the Redis server is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.client.Ping(ctx).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

// ScanKeys returns all keys matching the pattern using cursor pagination.
func (s *RedisStore) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var cursor uint64
	var keys []string

	for {
		opCtx, cancel := s.bound(ctx)
		batch, next, err := s.client.Scan(opCtx, cursor, pattern, 100).Result()
		cancel()
		if err != nil {
			return nil, unavailable(err)
		}

		keys = append(keys, batch...)

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

// Ensure RedisStore implements Store and KeyScanner
var (
	_ Store      = (*RedisStore)(nil)
	_ KeyScanner = (*RedisStore)(nil)
)
