package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aggregion/dmp-registry/pkg/cache/memorycache"
)

func TestMiddleware_RecordsRequests(t *testing.T) {
	collector := NewCollector()

	handler := Middleware(collector, nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/scripts", nil)
	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	m := collector.GetAPIMetrics()
	if got := m.RequestCounts["GET /scripts"]; got != 3 {
		t.Errorf("RequestCounts[GET /scripts] = %d, want 3", got)
	}
	if got := m.ErrorCounts["GET /scripts"]; got != 0 {
		t.Errorf("ErrorCounts[GET /scripts] = %d, want 0", got)
	}
	if m.TotalDurationSeconds["GET /scripts"] < 0 {
		t.Error("expected non-negative total duration")
	}
}

func TestMiddleware_RecordsErrors(t *testing.T) {
	collector := NewCollector()

	handler := Middleware(collector, nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	req := httptest.NewRequest(http.MethodPost, "/providers", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	m := collector.GetAPIMetrics()
	if got := m.ErrorCounts["POST /providers"]; got != 1 {
		t.Errorf("ErrorCounts[POST /providers] = %d, want 1", got)
	}
}

func TestMiddleware_ClientErrorsNotCounted(t *testing.T) {
	collector := NewCollector()

	handler := Middleware(collector, nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/scripts/alice/etl/1", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	m := collector.GetAPIMetrics()
	if got := m.RequestCounts["GET /scripts/alice/etl/1"]; got != 1 {
		t.Errorf("RequestCounts = %d, want 1", got)
	}
	// 4xx responses are the caller's fault, not server errors
	if got := m.ErrorCounts["GET /scripts/alice/etl/1"]; got != 0 {
		t.Errorf("ErrorCounts = %d, want 0", got)
	}
}

func TestCollector_GetCacheMetrics(t *testing.T) {
	collector := NewCollector()

	// Without a cache attached, metrics are zero
	m := collector.GetCacheMetrics()
	if m.Hits != 0 || m.Misses != 0 {
		t.Error("expected zero cache metrics without a cache")
	}

	mc, err := memorycache.New(&memorycache.Config{
		MaxSizeBytes:  1024 * 1024,
		DefaultTTL:    time.Minute,
		EnableMetrics: true,
	})
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	collector.SetCache(mc)

	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	mc.Set(ctx, "key1", "value1", time.Minute)
	mc.Get(ctx, "key1")
	mc.Get(ctx, "absent")

	m = collector.GetCacheMetrics()
	if m.Hits != 1 {
		t.Errorf("Hits = %d, want 1", m.Hits)
	}
	if m.Misses != 1 {
		t.Errorf("Misses = %d, want 1", m.Misses)
	}
	if m.KeysCurrent != 1 {
		t.Errorf("KeysCurrent = %d, want 1", m.KeysCurrent)
	}
	if m.MemoryBytes <= 0 {
		t.Errorf("MemoryBytes = %d, want > 0", m.MemoryBytes)
	}
}
