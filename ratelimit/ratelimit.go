package ratelimit

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/skinsight/aiguard/cache"
	"github.com/skinsight/aiguard/observe"
)

// keyPrefix namespaces limiter counters away from cached values in the
// shared store.
const keyPrefix = "ratelimit"

// Request describes a single rate-limit check.
type Request struct {
	// Identifier discriminates callers (user ID or client IP).
	Identifier string

	// Endpoint is the logical operation name, allowing per-endpoint budgets.
	Endpoint string

	// Limit is the maximum number of requests per window.
	Limit int

	// Window is the fixed window size.
	Window time.Duration
}

// Result is the outcome of a rate-limit check.
type Result struct {
	// Allowed reports whether the request is within budget.
	Allowed bool

	// Limit echoes the configured ceiling.
	Limit int

	// Remaining is how many requests are left in the current window.
	Remaining int

	// Reset is when the current window ends.
	Reset time.Time
}

// Limiter enforces fixed-window limits using the shared store's atomic
// counters, so a single budget holds across stateless application replicas.
type Limiter struct {
	store   cache.Store
	logger  observe.Logger
	metrics observe.Metrics
	now     func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithLogger sets the logger.
func WithLogger(l observe.Logger) Option {
	return func(lim *Limiter) { lim.logger = l }
}

// WithMetrics sets the telemetry recorder.
func WithMetrics(m observe.Metrics) Option {
	return func(lim *Limiter) { lim.metrics = m }
}

// WithClock overrides the time source. Used in tests to cross window
// boundaries without sleeping.
func WithClock(now func() time.Time) Option {
	return func(lim *Limiter) { lim.now = now }
}

// New creates a limiter over the given store.
func New(store cache.Store, opts ...Option) (*Limiter, error) {
	if store == nil {
		return nil, cache.ErrNilStore
	}

	lim := &Limiter{
		store:   store,
		logger:  observe.NopLogger(),
		metrics: observe.NopMetrics(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(lim)
	}
	return lim, nil
}

// Check atomically counts the request against its window and reports the
// decision.
//
// Windows are aligned to wall-clock multiples of the window size. A request
// that brings the counter to exactly Limit is allowed; the next one in the
// same window is rejected. Store failures allow the request (fail-open):
// an infrastructure outage must never block legitimate traffic, and the
// allow is logged as a distinguishable event.
func (l *Limiter) Check(ctx context.Context, req Request) Result {
	now := l.now()
	windowMs := req.Window.Milliseconds()
	if req.Limit <= 0 || windowMs <= 0 {
		// No budget configured for this call site.
		return Result{Allowed: true, Limit: req.Limit, Remaining: req.Limit, Reset: now}
	}

	bucket := now.UnixMilli() / windowMs
	reset := time.UnixMilli((bucket + 1) * windowMs)
	key := counterKey(req.Identifier, req.Endpoint, bucket)

	count, err := l.store.Increment(ctx, key, req.Window)
	if err != nil {
		l.logger.Warn(ctx, "rate limit store unavailable, allowing request",
			observe.Field{Key: "endpoint", Value: req.Endpoint},
			observe.Field{Key: "identifier", Value: req.Identifier},
			observe.Field{Key: "error", Value: err.Error()},
		)
		l.metrics.RecordRateLimit(ctx, req.Endpoint, true)
		return Result{Allowed: true, Limit: req.Limit, Remaining: req.Limit, Reset: reset}
	}

	allowed := count <= int64(req.Limit)
	remaining := req.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	l.metrics.RecordRateLimit(ctx, req.Endpoint, allowed)
	if !allowed {
		l.logger.Debug(ctx, "rate limit exceeded",
			observe.Field{Key: "endpoint", Value: req.Endpoint},
			observe.Field{Key: "identifier", Value: req.Identifier},
			observe.Field{Key: "count", Value: count},
			observe.Field{Key: "limit", Value: req.Limit},
		)
	}

	return Result{
		Allowed:   allowed,
		Limit:     req.Limit,
		Remaining: remaining,
		Reset:     reset,
	}
}

func counterKey(identifier, endpoint string, bucket int64) string {
	return strings.Join([]string{
		keyPrefix,
		identifier,
		endpoint,
		strconv.FormatInt(bucket, 10),
	}, ":")
}
