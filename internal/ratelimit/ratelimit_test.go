package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_BurstThenBlock(t *testing.T) {
	l := New(1, 2)

	if !l.Allow() || !l.Allow() {
		t.Fatal("expected burst of 2 to be allowed")
	}
	if l.Allow() {
		t.Fatal("expected third call to be limited")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); err == nil {
		t.Error("expected Wait to fail before a token is available")
	}
}

func TestLimiter_DisabledNeverBlocks(t *testing.T) {
	l := New(0, 0)
	if l != nil {
		t.Fatal("expected nil limiter for zero rate")
	}
	for i := 0; i < 100; i++ {
		if !l.Allow() {
			t.Fatal("nil limiter should always allow")
		}
	}
	if err := l.Wait(context.Background()); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}
