// SPDX-License-Identifier: MIT

// Package cache provides a typed in-memory cache with optional TTL.
package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// NoExpiry keeps an entry for the lifetime of the cache.
const NoExpiry time.Duration = 0

// Cache provides thread-safe caching with expiration support.
type Cache[V any] interface {
	// Get retrieves a value. The second result is false when absent or expired.
	Get(key string) (V, bool)
	// Set stores a value. A non-positive ttl never expires.
	Set(key string, value V, ttl time.Duration)
	Stats() Stats
}

// Stats holds cache performance counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Sets        int64
	Evictions   int64
	CurrentSize int
}

type entry[V any] struct {
	value      V
	expiration time.Time // zero means never
}

func (e *entry[V]) isExpired(now time.Time) bool {
	return !e.expiration.IsZero() && now.After(e.expiration)
}

var _ Cache[int] = (*Memory[int])(nil)

// Memory is an in-memory Cache. Expired entries are dropped when read.
type Memory[V any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[V]
	now     func() time.Time

	hits, misses, sets, evictions atomic.Int64
}

// NewMemory creates an empty cache.
func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{
		entries: make(map[string]*entry[V]),
		now:     time.Now,
	}
}

func (c *Memory[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, found := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !found {
		c.misses.Add(1)
		return zero, false
	}
	if e.isExpired(c.now()) {
		c.evict(key, e)
		c.misses.Add(1)
		return zero, false
	}
	c.hits.Add(1)
	return e.value, true
}

func (c *Memory[V]) Set(key string, value V, ttl time.Duration) {
	e := &entry[V]{value: value}
	if ttl > 0 {
		e.expiration = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	c.sets.Add(1)
}

func (c *Memory[V]) Stats() Stats {
	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()
	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Sets:        c.sets.Load(),
		Evictions:   c.evictions.Load(),
		CurrentSize: size,
	}
}

// evict removes key only if it still maps to the expired entry e, so a
// concurrent Set is never lost.
func (c *Memory[V]) evict(key string, e *entry[V]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[key] == e {
		delete(c.entries, key)
		c.evictions.Add(1)
	}
}
