package cache

import (
	"context"
	"testing"
	"time"
)

func TestCache_SetGetExpire(t *testing.T) {
	c := New[string, int](time.Minute)
	defer c.Close()
	ctx := context.Background()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Fatal("expected miss")
	}

	c.Set(ctx, "a", 42, 0)
	if v, ok := c.Get(ctx, "a"); !ok || v != 42 {
		t.Fatalf("Get(a) = %v, %v; want 42, true", v, ok)
	}

	c.Set(ctx, "short", 1, 50*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	if _, ok := c.Get(ctx, "short"); ok {
		t.Error("expected entry to expire")
	}

	c.Delete(ctx, "a")
	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("expected entry to be deleted")
	}
}
