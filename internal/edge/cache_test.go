package edge

import (
	"context"
	"testing"
	"time"

	"github.com/deadlock-api/assets-api/internal/cache"
)

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache(cache.NewMemoryStore(), time.Hour)
	resp := &Response{
		Status: 200,
		Header: map[string]string{"Content-Type": "application/json"},
		Body:   []byte(`[{"id":1}]`),
	}
	if err := c.Put(context.Background(), "k", resp); err != nil {
		t.Fatalf("put error: %v", err)
	}

	got, ok, err := c.Match(context.Background(), "k")
	if err != nil || !ok {
		t.Fatalf("expected hit, got %v %v", ok, err)
	}
	if got.Status != 200 || got.Header["Content-Type"] != "application/json" || string(got.Body) != `[{"id":1}]` {
		t.Fatalf("unexpected response %+v", got)
	}
}

func TestCacheMiss(t *testing.T) {
	c := NewCache(cache.NewMemoryStore(), 0)
	if _, ok, err := c.Match(context.Background(), "missing"); ok || err != nil {
		t.Fatalf("expected clean miss, got %v %v", ok, err)
	}
}

func TestCacheRejectsGarbage(t *testing.T) {
	store := cache.NewMemoryStore()
	_ = store.Put(context.Background(), "k", []byte("not json"), 0)
	c := NewCache(store, time.Hour)
	if _, ok, err := c.Match(context.Background(), "k"); ok || err == nil {
		t.Fatalf("garbage should surface as error, got %v %v", ok, err)
	}
}

func TestSkippedHeaders(t *testing.T) {
	for _, h := range []string{"connection", "Content-Length", "date", "X-Request-ID", "transfer-encoding"} {
		if !isSkippedHeader(h) {
			t.Fatalf("%s should be skipped", h)
		}
	}
	if isSkippedHeader("Content-Type") || isSkippedHeader("Cache-Control") {
		t.Fatalf("content headers must be kept")
	}
}
