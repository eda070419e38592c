package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type analysis struct {
	Condition  string  `json:"condition"`
	Confidence float64 `json:"confidence"`
}

// faultStore fails every operation, simulating a store outage.
type faultStore struct{}

func (faultStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, ErrUnavailable
}

func (faultStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return ErrUnavailable
}

func (faultStore) Delete(ctx context.Context, key string) error {
	return ErrUnavailable
}

func (faultStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	return 0, ErrUnavailable
}

func (faultStore) Ping(ctx context.Context) error {
	return ErrUnavailable
}

func TestGetOrSet_RoundTrip(t *testing.T) {
	client, err := New(NewMemoryStore())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ctx := context.Background()

	var calls atomic.Int64
	produce := func(ctx context.Context) (analysis, error) {
		calls.Add(1)
		return analysis{Condition: "psoriasis", Confidence: 0.91}, nil
	}

	first, err := GetOrSet(ctx, client, "detect-disease:abc", time.Minute, produce)
	if err != nil {
		t.Fatalf("first GetOrSet failed: %v", err)
	}
	second, err := GetOrSet(ctx, client, "detect-disease:abc", time.Minute, produce)
	if err != nil {
		t.Fatalf("second GetOrSet failed: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("producer called %d times, want 1", got)
	}
	if first != second {
		t.Errorf("cached value %+v differs from produced %+v", second, first)
	}

	snap := client.Stats().Snapshot()
	if snap.Hits != 1 || snap.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit and 1 miss", snap)
	}
}

func TestGetOrSet_TTLExpiry(t *testing.T) {
	client, _ := New(NewMemoryStore(), WithPolicy(Policy{DefaultTTL: time.Minute}))
	ctx := context.Background()

	var calls atomic.Int64
	produce := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "result", nil
	}

	if _, err := GetOrSet(ctx, client, "test:expiry", 10*time.Millisecond, produce); err != nil {
		t.Fatalf("GetOrSet failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := GetOrSet(ctx, client, "test:expiry", 10*time.Millisecond, produce); err != nil {
		t.Fatalf("GetOrSet failed: %v", err)
	}

	if got := calls.Load(); got != 2 {
		t.Errorf("producer called %d times after expiry, want 2", got)
	}
}

func TestGetOrSet_ProducerErrorNotCached(t *testing.T) {
	client, _ := New(NewMemoryStore())
	ctx := context.Background()

	wantErr := errors.New("model unavailable")
	var calls atomic.Int64
	produce := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "", wantErr
	}

	if _, err := GetOrSet(ctx, client, "detect-disease:err", time.Minute, produce); !errors.Is(err, wantErr) {
		t.Fatalf("GetOrSet error = %v, want %v", err, wantErr)
	}

	// The failure must not be cached: a retry invokes the producer again.
	if _, err := GetOrSet(ctx, client, "detect-disease:err", time.Minute, produce); !errors.Is(err, wantErr) {
		t.Fatalf("GetOrSet error = %v, want %v", err, wantErr)
	}

	if got := calls.Load(); got != 2 {
		t.Errorf("producer called %d times, want 2", got)
	}
}

func TestGetOrSet_FailOpenOnStoreOutage(t *testing.T) {
	client, _ := New(faultStore{})
	ctx := context.Background()

	var calls atomic.Int64
	produce := func(ctx context.Context) (analysis, error) {
		calls.Add(1)
		return analysis{Condition: "acne", Confidence: 0.77}, nil
	}

	// Both the read and write fail, yet the caller still gets the result.
	got, err := GetOrSet(ctx, client, "detect-disease:outage", time.Minute, produce)
	if err != nil {
		t.Fatalf("GetOrSet should not surface store errors, got: %v", err)
	}
	if got.Condition != "acne" {
		t.Errorf("got %+v, want produced value", got)
	}
	if calls.Load() != 1 {
		t.Errorf("producer called %d times, want 1", calls.Load())
	}
}

func TestGetOrSet_MalformedEntryIsMiss(t *testing.T) {
	store := NewMemoryStore()
	client, _ := New(store)
	ctx := context.Background()

	// Seed a value that does not deserialize into the expected type.
	_ = store.Set(ctx, "detect-disease:bad", []byte("{not json"), time.Minute)

	var calls atomic.Int64
	produce := func(ctx context.Context) (analysis, error) {
		calls.Add(1)
		return analysis{Condition: "rosacea"}, nil
	}

	got, err := GetOrSet(ctx, client, "detect-disease:bad", time.Minute, produce)
	if err != nil {
		t.Fatalf("GetOrSet failed: %v", err)
	}
	if got.Condition != "rosacea" {
		t.Errorf("got %+v, want fresh value", got)
	}
	if calls.Load() != 1 {
		t.Errorf("producer called %d times, want 1", calls.Load())
	}

	// The fresh value overwrites the corrupt entry.
	raw, found, _ := store.Get(ctx, "detect-disease:bad")
	if !found || string(raw) == "{not json" {
		t.Error("corrupt entry should have been replaced")
	}
}

func TestGetOrSet_InvalidKey(t *testing.T) {
	client, _ := New(NewMemoryStore())

	_, err := GetOrSet(context.Background(), client, "", time.Minute, func(ctx context.Context) (string, error) {
		t.Fatal("producer should not run for an invalid key")
		return "", nil
	})
	if err == nil {
		t.Error("expected error for empty key")
	}
}

func TestGetOrSet_DedupeCollapsesConcurrentMisses(t *testing.T) {
	client, _ := New(NewMemoryStore(), WithDedupe())
	ctx := context.Background()

	var calls atomic.Int64
	release := make(chan struct{})
	produce := func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	const concurrent = 8
	var wg sync.WaitGroup
	results := make([]string, concurrent)
	for i := 0; i < concurrent; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := GetOrSet(ctx, client, "final-eval:dedupe", time.Minute, produce)
			if err != nil {
				t.Errorf("GetOrSet failed: %v", err)
			}
			results[i] = v
		}(i)
	}

	// Let the callers pile up on the in-flight producer.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("producer called %d times with dedupe, want 1", got)
	}
	for i, v := range results {
		if v != "shared" {
			t.Errorf("caller %d got %q, want %q", i, v, "shared")
		}
	}
}

func TestNew_NilStore(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNilStore) {
		t.Errorf("New(nil) error = %v, want ErrNilStore", err)
	}
}

// Ensure faultStore implements Store
var _ Store = faultStore{}
