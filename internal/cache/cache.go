// Package cache is a typed TTL cache backed by ristretto.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// Cache stores values of type V under string-like keys.
type Cache[K ~string, V any] struct {
	store      *ristretto.Cache
	defaultTTL time.Duration
}

// New creates a cache whose entries expire after defaultTTL unless Set
// passes its own ttl.
func New[K ~string, V any](defaultTTL time.Duration) *Cache[K, V] {
	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		// Only reachable with an invalid static config above.
		panic(fmt.Sprintf("cache: %v", err))
	}
	return &Cache[K, V]{store: store, defaultTTL: defaultTTL}
}

// Get returns the cached value for key.
func (c *Cache[K, V]) Get(_ context.Context, key K) (V, bool) {
	var zero V
	v, ok := c.store.Get(string(key))
	if !ok {
		return zero, false
	}
	typed, ok := v.(V)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Set stores value under key. A non-positive ttl uses the default.
func (c *Cache[K, V]) Set(_ context.Context, key K, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.store.SetWithTTL(string(key), value, 1, ttl)
	c.store.Wait()
}

// Delete removes key.
func (c *Cache[K, V]) Delete(_ context.Context, key K) {
	c.store.Del(string(key))
}

// Close stops the background goroutines.
func (c *Cache[K, V]) Close() {
	c.store.Close()
}
