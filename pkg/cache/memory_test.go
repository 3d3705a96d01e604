package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type payload struct {
	Symbol string  `json:"symbol"`
	Close  float64 `json:"close"`
}

func newTestCache(t *testing.T, opts ...MemoryOption) *MemoryCache {
	t.Helper()
	mc := NewMemoryCache(opts...)
	t.Cleanup(func() { mc.Close() })
	return mc
}

func TestMemorySetGet(t *testing.T) {
	mc := newTestCache(t)
	ctx := context.Background()

	in := payload{Symbol: "AAPL", Close: 115.82}
	if err := mc.Set(ctx, "k", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out payload
	if err := mc.Get(ctx, "k", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestMemoryGetMiss(t *testing.T) {
	mc := newTestCache(t)

	var out payload
	err := mc.Get(context.Background(), "absent", &out)
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryExpiration(t *testing.T) {
	mc := newTestCache(t)
	ctx := context.Background()

	if err := mc.Set(ctx, "k", payload{Symbol: "AAPL"}, time.Nanosecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	var out payload
	if err := mc.Get(ctx, "k", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected expired entry to miss, got %v", err)
	}
}

func TestMemoryDelete(t *testing.T) {
	mc := newTestCache(t)
	ctx := context.Background()

	mc.Set(ctx, "a", payload{Symbol: "A"}, time.Minute)
	mc.Set(ctx, "b", payload{Symbol: "B"}, time.Minute)

	if err := mc.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ok, err := mc.Exists(ctx, "a", "b")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Fatalf("keys should be gone")
	}
}

func TestMemoryDeleteByPattern(t *testing.T) {
	mc := newTestCache(t)
	ctx := context.Background()

	mc.Set(ctx, "chart:AAPL:v1", payload{Symbol: "AAPL"}, time.Minute)
	mc.Set(ctx, "chart:MSFT:v1", payload{Symbol: "MSFT"}, time.Minute)
	mc.Set(ctx, "symbols", payload{}, time.Minute)

	if err := mc.DeleteByPattern(ctx, "chart:*"); err != nil {
		t.Fatalf("delete by pattern: %v", err)
	}

	if ok, _ := mc.Exists(ctx, "chart:AAPL:v1", "chart:MSFT:v1"); ok {
		t.Fatalf("chart entries should be gone")
	}
	if ok, _ := mc.Exists(ctx, "symbols"); !ok {
		t.Fatalf("unrelated key should survive")
	}
}

func TestMemoryLRUEviction(t *testing.T) {
	mc := newTestCache(t, WithMaxSize(2))
	ctx := context.Background()

	mc.Set(ctx, "a", payload{Symbol: "A"}, time.Minute)
	time.Sleep(time.Millisecond)
	mc.Set(ctx, "b", payload{Symbol: "B"}, time.Minute)
	time.Sleep(time.Millisecond)
	mc.Set(ctx, "c", payload{Symbol: "C"}, time.Minute)

	if ok, _ := mc.Exists(ctx, "a"); ok {
		t.Fatalf("oldest key should have been evicted")
	}
	if ok, _ := mc.Exists(ctx, "b", "c"); !ok {
		t.Fatalf("newer keys should remain")
	}
}
