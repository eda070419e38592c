package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/skinsight/aiguard/cache"
)

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("body = %q, want OK", rec.Body.String())
	}
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name     string
		result   Result
		wantCode int
		wantBody string
	}{
		{"healthy", Healthy("ok"), http.StatusOK, "OK"},
		{"degraded", Degraded("store down"), http.StatusOK, "DEGRADED"},
		{"unhealthy", Unhealthy("broken", nil), http.StatusServiceUnavailable, "UNHEALTHY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator()
			agg.Register("store", NewCheckerFunc("store", func(ctx context.Context) Result {
				return tt.result
			}))

			rec := httptest.NewRecorder()
			ReadinessHandler(agg)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestDetailedHandler(t *testing.T) {
	agg := NewAggregator()
	agg.Register("store", NewStoreChecker("store", cache.NewMemoryStore()))

	rec := httptest.NewRecorder()
	DetailedHandler(agg)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body.Status != "healthy" {
		t.Errorf("status = %q, want healthy", body.Status)
	}
	if _, ok := body.Checks["store"]; !ok {
		t.Error("store check missing from response")
	}
}

func TestStatsHandler(t *testing.T) {
	stats := cache.NewStats()
	stats.RecordHit()
	stats.RecordHit()
	stats.RecordMiss()

	rec := httptest.NewRecorder()
	StatsHandler(stats)(rec, httptest.NewRequest(http.MethodGet, "/cachez", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var snap cache.StatsSnapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if snap.Hits != 2 || snap.Misses != 1 {
		t.Errorf("snapshot = %+v, want 2 hits 1 miss", snap)
	}
	if want := 2.0 / 3.0; snap.HitRate != want {
		t.Errorf("hitRate = %f, want %f", snap.HitRate, want)
	}
}

func TestRegisterHandlers(t *testing.T) {
	mux := http.NewServeMux()
	agg := NewAggregator()
	RegisterHandlers(mux, agg, cache.NewStats())

	for _, path := range []string{"/healthz", "/readyz", "/health", "/cachez"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code == http.StatusNotFound {
			t.Errorf("%s not registered", path)
		}
		if strings.TrimSpace(rec.Body.String()) == "" {
			t.Errorf("%s returned empty body", path)
		}
	}
}
