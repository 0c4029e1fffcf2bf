// Package cache memoizes upstream lookups for a bounded time.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

// TTLCache is a bounded map of values stamped with the time they were
// fetched. An entry whose age reached ttl is dropped on read. When the cache
// is full the entry with the oldest fetch time is evicted, regardless of how
// recently it was read.
//
// The read-then-load sequence in GetOrLoad is not linearizable: two callers
// racing on the same missing key may both call load.
type TTLCache[K comparable, V any] struct {
	mu      sync.Mutex
	items   map[K]entry[V]
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func NewTTLCache[K comparable, V any](maxSize int, ttl time.Duration, opts ...Option) *TTLCache[K, V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if maxSize < 1 {
		maxSize = 1
	}
	return &TTLCache[K, V]{
		items:   make(map[K]entry[V], maxSize),
		ttl:     ttl,
		maxSize: maxSize,
		now:     o.now,
	}
}

// Get returns a fresh cached value. Expired entries are evicted.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().Sub(e.fetchedAt) >= c.ttl {
		delete(c.items, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value stamped with the current time.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(key, value, c.now())
}

// SetAt stores value as if it had been fetched at fetchedAt. A value that
// is already expired is not stored.
func (c *TTLCache[K, V]) SetAt(key K, value V, fetchedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now().Sub(fetchedAt) >= c.ttl {
		return
	}
	c.store(key, value, fetchedAt)
}

func (c *TTLCache[K, V]) store(key K, value V, fetchedAt time.Time) {
	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxSize {
		c.evictOldest()
	}
	c.items[key] = entry[V]{value: value, fetchedAt: fetchedAt}
}

// GetOrLoad returns the cached value or calls load and caches its result.
// Errors from load are not cached.
func (c *TTLCache[K, V]) GetOrLoad(key K, load func() (V, error)) (V, bool, error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}
	v, err := load()
	if err != nil {
		var zero V
		return zero, false, err
	}
	c.Set(key, v)
	return v, false, nil
}

func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *TTLCache[K, V]) evictOldest() {
	var (
		oldestKey K
		oldestAt  time.Time
		found     bool
	)
	for k, e := range c.items {
		if !found || e.fetchedAt.Before(oldestAt) {
			oldestKey, oldestAt, found = k, e.fetchedAt, true
		}
	}
	if found {
		delete(c.items, oldestKey)
	}
}
