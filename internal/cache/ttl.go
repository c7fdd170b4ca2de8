package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	v   V
	exp time.Time
}

// TTLCache is a map whose entries expire ttl after they were set. Expired
// entries are dropped lazily on Get, in bulk by Purge, and by a sweep that
// Set runs at most once per ttl. The sweep bounds the map to what was set in
// the last two ttl windows even when keys are never read again.
type TTLCache[K comparable, V any] struct {
	mu        sync.RWMutex
	data      map[K]entry[V]
	ttl       time.Duration
	now       func() time.Time
	nextSweep time.Time
}

func NewTTL[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{data: make(map[K]entry[V]), ttl: ttl, now: time.Now}
}

func (c *TTLCache[K, V]) Get(k K) (V, bool) {
	c.mu.RLock()
	e, ok := c.data[k]
	c.mu.RUnlock()
	if ok && c.now().Before(e.exp) {
		return e.v, true
	}
	if ok {
		c.mu.Lock()
		// re-check: a concurrent Set may have refreshed it
		if cur, still := c.data[k]; still && !c.now().Before(cur.exp) {
			delete(c.data, k)
		}
		c.mu.Unlock()
	}
	var zero V
	return zero, false
}

func (c *TTLCache[K, V]) Set(k K, v V) {
	c.mu.Lock()
	now := c.now()
	if !now.Before(c.nextSweep) {
		c.sweep(now)
		c.nextSweep = now.Add(c.ttl)
	}
	c.data[k] = entry[V]{v: v, exp: now.Add(c.ttl)}
	c.mu.Unlock()
}

// GetOrLoad returns the cached value for k or calls load and caches its
// result. Errors are not cached.
func (c *TTLCache[K, V]) GetOrLoad(k K, load func() (V, error)) (V, bool, error) {
	if v, ok := c.Get(k); ok {
		return v, true, nil
	}
	v, err := load()
	if err != nil {
		return v, false, err
	}
	c.Set(k, v)
	return v, false, nil
}

// Purge removes every expired entry and returns how many were dropped.
func (c *TTLCache[K, V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweep(c.now())
}

// sweep requires c.mu held for writing.
func (c *TTLCache[K, V]) sweep(now time.Time) int {
	n := 0
	for k, e := range c.data {
		if !now.Before(e.exp) {
			delete(c.data, k)
			n++
		}
	}
	return n
}

func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
