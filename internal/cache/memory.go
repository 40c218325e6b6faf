package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache holds pages for the lifetime of one process. Backed by
// go-cache, which handles TTL eviction on its own cleanup goroutine.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates an in-process cache.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{cache: gocache.New(defaultTTL, cleanupInterval)}
}

// Get retrieves a page.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a page. A zero ttl uses the cache default.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	c.cache.Set(key, value, ttl)
	return nil
}

// Delete removes a page.
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes every page.
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}
