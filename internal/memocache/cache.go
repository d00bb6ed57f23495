package memocache

import (
	"sync"
	"time"
)

// Cache is a thread-safe bounded map with FIFO eviction and optional TTL.
// A zero TTL disables expiry. The zero value is not usable; construct with New.
type Cache[V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	entries  map[string]entry[V]
	order    []string
	now      func() time.Time
}

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// New constructs a cache holding at most capacity entries. Entries older than
// ttl are treated as misses; pass 0 to disable expiry.
func New[V any](capacity int, ttl time.Duration) *Cache[V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[V]{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[string]entry[V], capacity),
		order:    make([]string, 0, capacity),
		now:      time.Now,
	}
}

// Get returns the cached value for key, if present and unexpired. An expired
// entry is evicted and reported as a miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.ttl > 0 && c.now().Sub(e.storedAt) > c.ttl {
		c.remove(key)
		return zero, false
	}
	return e.value, true
}

// Put stores value under key. Inserting past capacity evicts the oldest
// entry by insertion order. Re-inserting an existing key refreshes its value
// and timestamp but keeps its original position in the eviction order.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = entry[V]{value: value, storedAt: c.now()}
		return
	}
	for len(c.entries) >= c.capacity && len(c.order) > 0 {
		c.remove(c.order[0])
	}
	c.entries[key] = entry[V]{value: value, storedAt: c.now()}
	c.order = append(c.order, key)
}

// Clear drops every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry[V], c.capacity)
	c.order = c.order[:0]
}

// Len returns the number of stored entries, including any not yet observed
// as expired.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove deletes key from both the map and the insertion-order list.
// Callers must hold c.mu.
func (c *Cache[V]) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
