// Package memcache provides a bounded, process-local response cache.
//
// Entries carry their own absolute expiry and are evicted lazily when a read
// finds them stale. When the cache is full the least recently used entry is
// dropped to make room.
package memcache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Cache is an LRU cache with per-entry expiry. It is safe for concurrent use.
type Cache struct {
	entries *lru.Cache[string, entry]
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a cache holding at most maxEntries entries.
func New(maxEntries int, opts ...Option) (*Cache, error) {
	entries, err := lru.New[string, entry](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}

	c := &Cache{entries: entries, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the value stored under key. An expired entry is removed and
// reported as a miss.
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := c.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	if c.now().After(e.expiresAt) {
		c.entries.Remove(key)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores value under key until ttl from now, replacing any previous entry.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	c.entries.Add(key, entry{value: stored, expiresAt: c.now().Add(ttl)})
	return nil
}

// Len returns the number of entries, including expired ones not yet evicted.
func (c *Cache) Len() int {
	return c.entries.Len()
}
