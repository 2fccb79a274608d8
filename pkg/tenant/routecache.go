package tenant

import (
	"context"
	"sync"
	"time"
)

// RouteCache caches directory lookups keyed by subdomain so the hot path
// skips the central database for recently seen tenants. Entries must be
// deleted when a tenant is updated or suspended.
type RouteCache interface {
	// Get retrieves a cached route by subdomain.
	Get(ctx context.Context, subdomain string) (*Route, bool)

	// Set stores a route with the given TTL.
	Set(ctx context.Context, subdomain string, route *Route, ttl time.Duration)

	// Delete removes a route from the cache.
	Delete(ctx context.Context, subdomain string)

	// Close releases any resources held by the cache.
	Close() error
}

// memoryRouteCache is the default single-process route cache with TTL
// expiry, LRU eviction and periodic background cleanup.
type memoryRouteCache struct {
	mu      sync.Mutex
	items   map[string]routeCacheItem
	lru     []string
	maxSize int
	stop    chan struct{}
	done    chan struct{}
	closed  bool
}

type routeCacheItem struct {
	route     *Route
	expiresAt time.Time
}

// DefaultRouteCacheSize bounds the in-memory route cache.
const DefaultRouteCacheSize = 1000

// NewMemoryRouteCache creates an in-memory route cache with automatic cleanup.
func NewMemoryRouteCache() RouteCache {
	return NewMemoryRouteCacheWithSize(DefaultRouteCacheSize)
}

// NewMemoryRouteCacheWithSize creates an in-memory route cache with the
// given size limit.
func NewMemoryRouteCacheWithSize(maxSize int) RouteCache {
	if maxSize <= 0 {
		maxSize = DefaultRouteCacheSize
	}

	c := &memoryRouteCache{
		items:   make(map[string]routeCacheItem),
		lru:     make([]string, 0, maxSize),
		maxSize: maxSize,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	go c.cleanup()

	return c
}

func (c *memoryRouteCache) Get(ctx context.Context, subdomain string) (*Route, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[subdomain]
	if !exists {
		return nil, false
	}

	if time.Now().After(item.expiresAt) {
		delete(c.items, subdomain)
		c.removeLRU(subdomain)
		return nil, false
	}

	c.touchLRU(subdomain)

	return item.route, true
}

func (c *memoryRouteCache) Set(ctx context.Context, subdomain string, route *Route, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[subdomain]; !exists && len(c.items) >= c.maxSize {
		// Evict the least recently used entry.
		if len(c.lru) > 0 {
			evict := c.lru[0]
			delete(c.items, evict)
			c.lru = c.lru[1:]
		}
	}

	c.items[subdomain] = routeCacheItem{
		route:     route,
		expiresAt: time.Now().Add(ttl),
	}
	c.touchLRU(subdomain)
}

func (c *memoryRouteCache) Delete(ctx context.Context, subdomain string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, subdomain)
	c.removeLRU(subdomain)
}

// cleanup periodically drops expired entries so rarely requested tenants
// do not pin memory until their next request.
func (c *memoryRouteCache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *memoryRouteCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
			c.removeLRU(key)
		}
	}
}

// touchLRU moves the key to the most-recently-used end of the queue.
func (c *memoryRouteCache) touchLRU(key string) {
	for i, k := range c.lru {
		if k == key {
			c.lru = append(c.lru[:i], c.lru[i+1:]...)
			break
		}
	}
	c.lru = append(c.lru, key)
}

func (c *memoryRouteCache) removeLRU(key string) {
	for i, k := range c.lru {
		if k == key {
			c.lru = append(c.lru[:i], c.lru[i+1:]...)
			return
		}
	}
}

// Close stops the cleanup goroutine and waits for it to finish.
func (c *memoryRouteCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done
	return nil
}
