// Package memcache is an in-process key/value cache whose entries expire a
// fixed time after they were written. Expired entries are removed lazily
// when they are next read.
package memcache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Result describes the outcome of a cache lookup.
type Result string

const (
	Hit     Result = "hit"
	Miss    Result = "miss"
	Expired Result = "expired"
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is a TTL cache safe for concurrent use.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	ttl     time.Duration
	clock   clockwork.Clock
}

// New creates a cache whose entries live for ttl. A nil clock uses real time.
func New[V any](ttl time.Duration, clock clockwork.Clock) *Cache[V] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		clock:   clock,
	}
}

// Lookup returns the value stored under key. An entry older than the TTL is
// deleted and reported as Expired.
func (c *Cache[V]) Lookup(key string) (V, Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, Miss
	}
	if c.clock.Since(e.storedAt) > c.ttl {
		delete(c.entries, key)
		return zero, Expired
	}
	return e.value, Hit
}

// Get is Lookup reduced to a found flag.
func (c *Cache[V]) Get(key string) (V, bool) {
	v, res := c.Lookup(key)
	return v, res == Hit
}

// Set stores value under key, replacing any previous entry and restarting its TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, storedAt: c.clock.Now()}
}

// Len returns the number of stored entries, including expired ones not yet read.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
