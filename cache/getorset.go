package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/skinsight/aiguard/keys"
	"github.com/skinsight/aiguard/observe"
)

// Client orchestrates cache-aside reads over a Store.
type Client struct {
	store   Store
	policy  Policy
	stats   Collector
	logger  observe.Logger
	metrics observe.Metrics
	tracer  observe.Tracer
	group   singleflight.Group
	dedupe  bool
}

// Option configures a Client.
type Option func(*Client)

// WithPolicy sets the TTL policy.
func WithPolicy(p Policy) Option {
	return func(c *Client) { c.policy = p }
}

// WithCollector sets the hit/miss collector.
func WithCollector(col Collector) Option {
	return func(c *Client) { c.stats = col }
}

// WithLogger sets the logger.
func WithLogger(l observe.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics sets the telemetry recorder.
func WithMetrics(m observe.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTracer wraps each producer invocation in a span.
func WithTracer(t observe.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithDedupe collapses concurrent misses for the same key into a single
// producer invocation. Off by default: producers are idempotent and the
// duplicated work is accepted, so de-dup is an opt-in for callers whose
// producers are expensive enough to care.
func WithDedupe() Option {
	return func(c *Client) { c.dedupe = true }
}

// New creates a cache client over the given store.
func New(store Store, opts ...Option) (*Client, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	c := &Client{
		store:   store,
		policy:  DefaultPolicy(),
		stats:   NewStats(),
		logger:  observe.NopLogger(),
		metrics: observe.NopMetrics(),
		tracer:  observe.NopTracer(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Stats returns the client's hit/miss collector.
func (c *Client) Stats() Collector {
	return c.stats
}

// Store returns the underlying store.
func (c *Client) Store() Store {
	return c.store
}

// GetOrSet returns the cached value for key, or invokes produce, stores the
// result, and returns it.
//
// Failure semantics:
//   - A store read error degrades to a miss (logged, never surfaced).
//   - A malformed cached value degrades to a miss.
//   - A store write error is logged and swallowed; the produced value is
//     still returned.
//   - A producer error propagates unchanged and is never cached.
//
// Two concurrent calls with the same key that both miss will both invoke
// produce unless the client was built WithDedupe.
func GetOrSet[T any](ctx context.Context, c *Client, key string, ttl time.Duration, produce func(context.Context) (T, error)) (T, error) {
	var zero T

	if err := keys.ValidateKey(key); err != nil {
		return zero, err
	}

	ns := namespaceOf(key)

	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn(ctx, "cache read failed, treating as miss",
			observe.Field{Key: "key", Value: key},
			observe.Field{Key: "error", Value: err.Error()},
		)
	}
	if found {
		var v T
		if uerr := json.Unmarshal(raw, &v); uerr == nil {
			c.stats.RecordHit()
			c.metrics.RecordCacheEvent(ctx, ns, true)
			return v, nil
		}
		c.logger.Warn(ctx, "malformed cache entry, treating as miss",
			observe.Field{Key: "key", Value: key},
		)
	}

	c.stats.RecordMiss()
	c.metrics.RecordCacheEvent(ctx, ns, false)

	v, err := c.produce(ctx, key, ns, produceAny(produce))
	if err != nil {
		return zero, err
	}

	result, ok := v.(T)
	if !ok {
		// Only reachable if a dedupe leader ran with a different T for the
		// same key, which is a caller bug.
		return zero, ErrTypeMismatch
	}

	effective := c.policy.EffectiveTTL(ttl)
	if effective > 0 {
		if data, merr := json.Marshal(result); merr != nil {
			c.logger.Warn(ctx, "cache value not serializable, skipping write",
				observe.Field{Key: "key", Value: key},
				observe.Field{Key: "error", Value: merr.Error()},
			)
		} else if serr := c.store.Set(ctx, key, data, effective); serr != nil {
			c.logger.Warn(ctx, "cache write failed, returning uncached result",
				observe.Field{Key: "key", Value: key},
				observe.Field{Key: "error", Value: serr.Error()},
			)
		}
	}

	return result, nil
}

// produce runs the producer, optionally collapsing concurrent calls for the
// same key, and records producer telemetry.
func (c *Client) produce(ctx context.Context, key, ns string, fn func(context.Context) (any, error)) (any, error) {
	run := func() (any, error) {
		spanCtx, span := c.tracer.StartProducer(ctx, ns)
		start := time.Now()
		v, err := fn(spanCtx)
		c.metrics.RecordProducer(ctx, ns, time.Since(start), err)
		c.tracer.EndProducer(span, err)
		return v, err
	}

	if !c.dedupe {
		return run()
	}

	v, err, _ := c.group.Do(key, run)
	return v, err
}

func produceAny[T any](fn func(context.Context) (T, error)) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		return fn(ctx)
	}
}

// namespaceOf returns the key's namespace prefix (everything before the
// first delimiter).
func namespaceOf(key string) string {
	if i := strings.Index(key, keys.Delimiter); i >= 0 {
		return key[:i]
	}
	return key
}
