package memorycache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func newTestCache(t *testing.T, maxBytes int64) *Cache {
	t.Helper()
	c, err := New(&Config{
		MaxSizeBytes:  maxBytes,
		DefaultTTL:    time.Minute,
		EnableMetrics: true,
	})
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	return c
}

func TestCache_SetAndGet(t *testing.T) {
	c := newTestCache(t, 1024*1024)
	ctx := context.Background()

	if err := c.Set(ctx, "scripts/alice/etl@1", "record-1", time.Minute); err != nil {
		t.Fatalf("failed to set value: %v", err)
	}

	value, found := c.Get(ctx, "scripts/alice/etl@1")
	if !found {
		t.Error("expected to find cached key")
	}
	if value != "record-1" {
		t.Errorf("expected record-1, got %v", value)
	}

	if _, found := c.Get(ctx, "scripts/alice/etl@2"); found {
		t.Error("expected not to find uncached key")
	}
}

func TestCache_DefaultTTL(t *testing.T) {
	c := newTestCache(t, 1024*1024)
	ctx := context.Background()

	// Zero TTL falls back to the configured default
	if err := c.Set(ctx, "key1", "value1", 0); err != nil {
		t.Fatalf("failed to set value: %v", err)
	}

	if _, found := c.Get(ctx, "key1"); !found {
		t.Error("expected to find key set with default TTL")
	}
}

func TestCache_TTLExpiration(t *testing.T) {
	c := newTestCache(t, 1024*1024)
	ctx := context.Background()

	if err := c.Set(ctx, "key1", "value1", 50*time.Millisecond); err != nil {
		t.Fatalf("failed to set value: %v", err)
	}

	if _, found := c.Get(ctx, "key1"); !found {
		t.Error("expected to find key1 before expiration")
	}

	time.Sleep(100 * time.Millisecond)

	if _, found := c.Get(ctx, "key1"); found {
		t.Error("expected not to find key1 after expiration")
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry to be removed, Len() = %d", c.Len())
	}
}

func TestCache_LRUEviction(t *testing.T) {
	// Capacity for roughly two entries
	c := newTestCache(t, 220)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("key%d", i)
		if err := c.Set(ctx, key, i, time.Minute); err != nil {
			t.Fatalf("failed to set value: %v", err)
		}
	}

	if c.Len() >= 10 {
		t.Errorf("expected eviction to cap entries, got %d", c.Len())
	}

	// Most recent entry survives
	if _, found := c.Get(ctx, "key9"); !found {
		t.Error("expected to find most recent entry key9")
	}
	// Oldest entry is gone
	if _, found := c.Get(ctx, "key0"); found {
		t.Error("expected oldest entry key0 to be evicted")
	}
}

func TestCache_GetRefreshesLRUOrder(t *testing.T) {
	c := newTestCache(t, 320)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := c.Set(ctx, fmt.Sprintf("key%d", i), i, time.Minute); err != nil {
			t.Fatalf("failed to set value: %v", err)
		}
	}

	// Touch the oldest entry so it moves to the front
	if _, found := c.Get(ctx, "key0"); !found {
		t.Fatal("expected to find key0")
	}

	// Adding one more evicts key1, not key0
	if err := c.Set(ctx, "key3", 3, time.Minute); err != nil {
		t.Fatalf("failed to set value: %v", err)
	}

	if _, found := c.Get(ctx, "key0"); !found {
		t.Error("expected recently touched key0 to survive eviction")
	}
	if _, found := c.Get(ctx, "key1"); found {
		t.Error("expected key1 to be evicted")
	}
}

func TestCache_Delete(t *testing.T) {
	c := newTestCache(t, 1024*1024)
	ctx := context.Background()

	if err := c.Set(ctx, "key1", "value1", time.Minute); err != nil {
		t.Fatalf("failed to set value: %v", err)
	}

	if err := c.Delete(ctx, "key1"); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if _, found := c.Get(ctx, "key1"); found {
		t.Error("expected not to find deleted key")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
}

func TestCache_Clear(t *testing.T) {
	c := newTestCache(t, 1024*1024)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := c.Set(ctx, fmt.Sprintf("key%d", i), i, time.Minute); err != nil {
			t.Fatalf("failed to set value: %v", err)
		}
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache after Clear, Len() = %d", c.Len())
	}
	if c.Size() != 0 {
		t.Errorf("expected zero size after Clear, Size() = %d", c.Size())
	}
}

func TestCache_Metrics(t *testing.T) {
	c := newTestCache(t, 1024*1024)
	ctx := context.Background()

	if err := c.Set(ctx, "key1", "value1", time.Minute); err != nil {
		t.Fatalf("failed to set value: %v", err)
	}

	c.Get(ctx, "key1")   // hit
	c.Get(ctx, "key1")   // hit
	c.Get(ctx, "absent") // miss

	m := c.Metrics()
	if m.Hits != 2 {
		t.Errorf("Hits = %d, want 2", m.Hits)
	}
	if m.Misses != 1 {
		t.Errorf("Misses = %d, want 1", m.Misses)
	}
	if m.KeysAdded != 1 {
		t.Errorf("KeysAdded = %d, want 1", m.KeysAdded)
	}

	wantRate := 2.0 / 3.0
	if rate := m.HitRate(); rate < wantRate-0.001 || rate > wantRate+0.001 {
		t.Errorf("HitRate() = %f, want %f", rate, wantRate)
	}
}

func TestCache_MetricsDisabled(t *testing.T) {
	c, err := New(&Config{
		MaxSizeBytes: 1024,
		DefaultTTL:   time.Minute,
	})
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	m := c.Metrics()
	if m.Hits != 0 || m.Misses != 0 {
		t.Error("expected zero metrics when collection is disabled")
	}
	if m.HitRate() != 0.0 {
		t.Errorf("HitRate() = %f, want 0.0", m.HitRate())
	}
}
