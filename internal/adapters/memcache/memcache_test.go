package memcache

import (
	"context"
	"testing"
	"time"
)

func TestSetGetRoundTrip(t *testing.T) {
	c := New()
	ctx := context.Background()

	type payload struct {
		Name string `json:"name"`
	}
	if err := c.Set(ctx, "k", payload{Name: "Grand Makkah Hotel"}, 60); err != nil {
		t.Fatalf("err: %v", err)
	}
	var got payload
	ok, err := c.Get(ctx, "k", &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Name != "Grand Makkah Hotel" {
		t.Fatalf("got %+v", got)
	}
}

func TestGet_ReturnsCopiesNotAliases(t *testing.T) {
	c := New()
	ctx := context.Background()

	_ = c.Set(ctx, "k", []string{"a", "b"}, 60)
	var first []string
	_, _ = c.Get(ctx, "k", &first)
	first[0] = "mutated"

	var second []string
	_, _ = c.Get(ctx, "k", &second)
	if second[0] != "a" {
		t.Fatalf("cache entry aliased by a reader: %v", second)
	}
}

func TestExpiredEntriesMissAndSweep(t *testing.T) {
	c := New()
	ctx := context.Background()

	clock := time.Now()
	c.now = func() time.Time { return clock }

	_ = c.Set(ctx, "short", "v", 10)
	_ = c.Set(ctx, "long", "v", 3600)

	clock = clock.Add(11 * time.Second)

	var s string
	if ok, _ := c.Get(ctx, "short", &s); ok {
		t.Fatalf("expired entry served")
	}
	if ok, _ := c.Get(ctx, "long", &s); !ok {
		t.Fatalf("live entry missed")
	}

	if n := c.Sweep(); n != 1 {
		t.Fatalf("sweep evicted %d, want 1", n)
	}
	if c.Len() != 1 {
		t.Fatalf("len = %d after sweep, want 1", c.Len())
	}
}

func TestDel(t *testing.T) {
	c := New()
	ctx := context.Background()

	_ = c.Set(ctx, "k", 1, 60)
	_ = c.Del(ctx, "k")
	var n int
	if ok, _ := c.Get(ctx, "k", &n); ok {
		t.Fatalf("deleted entry served")
	}
}
