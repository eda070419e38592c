package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestJanitor_Sweep(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Set(ctx, "test:1", []byte("a"), time.Minute)
	_ = store.Set(ctx, "test:2", []byte("b"), time.Minute)
	_ = store.Set(ctx, "scratch:1", []byte("c"), time.Minute)
	_ = store.Set(ctx, "detect-disease:keep", []byte("d"), time.Minute)

	j, err := NewJanitor(store, "* * * * *", []string{"test", "scratch"}, nil)
	if err != nil {
		t.Fatalf("NewJanitor failed: %v", err)
	}

	removed, err := j.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("Sweep removed %d keys, want 3", removed)
	}

	// Production namespaces are untouched.
	if _, found, _ := store.Get(ctx, "detect-disease:keep"); !found {
		t.Error("sweep must not touch other namespaces")
	}
	if _, found, _ := store.Get(ctx, "test:1"); found {
		t.Error("swept key should be gone")
	}
}

func TestNewJanitor_Validation(t *testing.T) {
	store := NewMemoryStore()

	if _, err := NewJanitor(nil, "* * * * *", []string{"test"}, nil); !errors.Is(err, ErrNilStore) {
		t.Errorf("nil store error = %v, want ErrNilStore", err)
	}
	if _, err := NewJanitor(store, "* * * * *", nil, nil); !errors.Is(err, ErrNoNamespaces) {
		t.Errorf("no namespaces error = %v, want ErrNoNamespaces", err)
	}
	if _, err := NewJanitor(store, "not a cron spec", []string{"test"}, nil); err == nil {
		t.Error("expected error for invalid schedule")
	}
}

func TestJanitor_StartStop(t *testing.T) {
	j, err := NewJanitor(NewMemoryStore(), "* * * * *", []string{"test"}, nil)
	if err != nil {
		t.Fatalf("NewJanitor failed: %v", err)
	}

	j.Start()
	j.Stop()
}
