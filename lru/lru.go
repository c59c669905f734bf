// Package lru implements the cost- and count-bounded eviction cache used
// by the geometry cache (spec.md §4.1). The bookkeeping (cost tracking,
// dual-bound eviction, locking discipline) is this package's own; the
// backing ordered map is delegated to hashicorp/golang-lru's simplelru,
// the same role "arena of handles with dedup-by-key" plays in an IR type
// registry.
package lru

import (
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// unboundedCount stands in for "no count limit": simplelru requires a
// positive capacity, so an unbounded Cache is built with a very large one
// and relies entirely on the cost bound for eviction.
const unboundedCount = 1 << 30

// Cache is a thread-safe, cost- and count-bounded LRU cache. The zero
// value is not usable; construct with New.
type Cache[K comparable, V any] struct {
	mu sync.Mutex

	inner      *simplelru.LRU[K, entry[V]]
	countLimit int
	costLimit  int64
	totalCost  int64
}

type entry[V any] struct {
	value V
	cost  int64
}

// New creates a Cache bounded by countLimit entries and costLimit total
// cost. A non-positive countLimit means "unbounded count"; a non-positive
// costLimit means "unbounded cost".
func New[K comparable, V any](countLimit int, costLimit int64) *Cache[K, V] {
	cap := countLimit
	if cap <= 0 {
		cap = unboundedCount
	}
	inner, _ := simplelru.NewLRU[K, entry[V]](cap, nil)
	return &Cache[K, V]{inner: inner, countLimit: countLimit, costLimit: costLimit}
}

// Put inserts or replaces key with value at the given cost, evicting from
// the least-recently-used end until both bounds are satisfied.
func (c *Cache[K, V]) Put(key K, value V, cost int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.inner.Peek(key); ok {
		c.totalCost -= old.cost
	}
	c.inner.Add(key, entry[V]{value: value, cost: cost})
	c.totalCost += cost
	c.evict()
}

// Get retrieves value for key, promoting it to most-recently-used. The
// second return is false when the key is absent.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.inner.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Peek retrieves value for key without promoting it.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.inner.Peek(key)
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Remove deletes key if present, reporting whether anything was removed.
func (c *Cache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.inner.Peek(key)
	if !ok {
		return false
	}
	c.inner.Remove(key)
	c.totalCost -= e.cost
	return true
}

// Clear empties the cache. Used both for "closing a document" and for a
// global memory-pressure signal (spec.md §4.1, §4.8).
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.Purge()
	c.totalCost = 0
}

// Len returns the current entry count.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Len()
}

// Cost returns the current total cost.
func (c *Cache[K, V]) Cost() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalCost
}

// SetLimits tightens or loosens the bounds at runtime. Tightening triggers
// immediate eviction (spec.md §4.1).
func (c *Cache[K, V]) SetLimits(countLimit int, costLimit int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.countLimit = countLimit
	c.costLimit = costLimit
	cap := countLimit
	if cap <= 0 {
		cap = unboundedCount
	}
	c.inner.Resize(cap)
	c.evict()
}

// Keys returns every key in least-to-most-recently-used order.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Keys()
}

// evict drops least-recently-used entries until both bounds hold. Must be
// called with mu held.
func (c *Cache[K, V]) evict() {
	for c.costLimit > 0 && c.totalCost > c.costLimit && c.inner.Len() > 0 {
		_, e, ok := c.inner.RemoveOldest()
		if !ok {
			break
		}
		c.totalCost -= e.cost
	}
}
