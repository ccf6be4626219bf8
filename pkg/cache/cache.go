// Package cache provides a small in-memory TTL cache.
package cache

import (
	"sync"
	"time"
)

type item[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a concurrency-safe map with per-entry expiry.
type TTLCache[K comparable, V any] struct {
	mu         sync.RWMutex
	items      map[K]item[V]
	defaultTTL time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

// New creates a cache whose Set uses defaultTTL when ttl is zero.
// Expired entries are swept every minute until Close.
func New[K comparable, V any](defaultTTL time.Duration) *TTLCache[K, V] {
	c := &TTLCache[K, V]{
		items:      make(map[K]item[V]),
		defaultTTL: defaultTTL,
		stop:       make(chan struct{}),
	}
	go c.sweep()
	return c
}

// Get returns the value for key when present and not expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(it.expiresAt) {
		var zero V
		return zero, false
	}
	return it.value, true
}

// Set stores value under key. A zero ttl uses the cache default.
func (c *TTLCache[K, V]) Set(key K, value V, ttl time.Duration) {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	c.items[key] = item[V]{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Delete removes key.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Size returns the number of entries, expired ones included until the
// next sweep.
func (c *TTLCache[K, V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the background sweeper.
func (c *TTLCache[K, V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *TTLCache[K, V]) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for k, it := range c.items {
				if now.After(it.expiresAt) {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		}
	}
}
