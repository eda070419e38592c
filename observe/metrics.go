package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records cache and rate-limit telemetry.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCacheEvent records a cache lookup outcome for a namespace.
	RecordCacheEvent(ctx context.Context, namespace string, hit bool)

	// RecordRateLimit records a rate-limit decision for an endpoint.
	RecordRateLimit(ctx context.Context, endpoint string, allowed bool)

	// RecordProducer records a producer invocation with duration and error status.
	RecordProducer(ctx context.Context, namespace string, duration time.Duration, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter         metric.Meter
	cacheEvents   metric.Int64Counter
	limitDecided  metric.Int64Counter
	producerCount metric.Int64Counter
	producerErrs  metric.Int64Counter
	producerHist  metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	cacheEvents, err := meter.Int64Counter(
		"cache.events.total",
		metric.WithDescription("Total number of cache lookups partitioned by hit or miss"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	limitDecided, err := meter.Int64Counter(
		"ratelimit.decisions.total",
		metric.WithDescription("Total number of rate limit decisions"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, err
	}

	producerCount, err := meter.Int64Counter(
		"producer.calls.total",
		metric.WithDescription("Total number of producer invocations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	producerErrs, err := meter.Int64Counter(
		"producer.errors.total",
		metric.WithDescription("Total number of producer failures"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	producerHist, err := meter.Float64Histogram(
		"producer.duration_ms",
		metric.WithDescription("Producer invocation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:         meter,
		cacheEvents:   cacheEvents,
		limitDecided:  limitDecided,
		producerCount: producerCount,
		producerErrs:  producerErrs,
		producerHist:  producerHist,
	}, nil
}

// RecordCacheEvent records a cache lookup outcome.
func (m *metricsImpl) RecordCacheEvent(ctx context.Context, namespace string, hit bool) {
	eventType := "miss"
	if hit {
		eventType = "hit"
	}

	m.cacheEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("namespace", namespace),
		attribute.String("event_type", eventType),
	))
}

// RecordRateLimit records a rate-limit decision.
func (m *metricsImpl) RecordRateLimit(ctx context.Context, endpoint string, allowed bool) {
	m.limitDecided.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.Bool("allowed", allowed),
	))
}

// RecordProducer records a producer invocation.
func (m *metricsImpl) RecordProducer(ctx context.Context, namespace string, duration time.Duration, err error) {
	opt := metric.WithAttributes(attribute.String("namespace", namespace))

	m.producerCount.Add(ctx, 1, opt)
	if err != nil {
		m.producerErrs.Add(ctx, 1, opt)
	}
	m.producerHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordCacheEvent(ctx context.Context, namespace string, hit bool) {}
func (m *noopMetrics) RecordRateLimit(ctx context.Context, endpoint string, allowed bool) {
}
func (m *noopMetrics) RecordProducer(ctx context.Context, namespace string, duration time.Duration, err error) {
}

// NopMetrics returns a Metrics implementation that records nothing.
func NopMetrics() Metrics {
	return &noopMetrics{}
}

// Ensure implementations satisfy Metrics
var (
	_ Metrics = (*metricsImpl)(nil)
	_ Metrics = (*noopMetrics)(nil)
)
