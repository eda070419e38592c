package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"
)

func TestNewMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	m, err := NewMetrics(meter)
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}

	// Recording must never panic, whatever the outcome.
	ctx := context.Background()
	m.RecordCacheEvent(ctx, "detect-disease", true)
	m.RecordCacheEvent(ctx, "detect-disease", false)
	m.RecordRateLimit(ctx, "ai-analysis", true)
	m.RecordRateLimit(ctx, "ai-analysis", false)
	m.RecordProducer(ctx, "detect-disease", 120*time.Millisecond, nil)
	m.RecordProducer(ctx, "detect-disease", time.Second, errors.New("model unavailable"))
}

func TestNopMetrics(t *testing.T) {
	m := NopMetrics()
	ctx := context.Background()

	m.RecordCacheEvent(ctx, "ns", true)
	m.RecordRateLimit(ctx, "endpoint", false)
	m.RecordProducer(ctx, "ns", 0, nil)
}
