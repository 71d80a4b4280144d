package cache

import "time"

// LayeredCache reads from memory first and falls back to disk, promoting
// disk hits into memory
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache creates a memory+disk cache sharing one TTL
func NewLayeredCache(dir string, ttl time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(ttl),
		disk:   NewDiskCache(dir, ttl),
	}
}

// Get retrieves a value, checking memory before disk
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}

	if val, found := c.disk.Get(key); found {
		c.memory.Set(key, val)
		return val, true
	}

	return nil, false
}

// Set stores a value in both layers
func (c *LayeredCache) Set(key string, value []byte) {
	c.memory.Set(key, value)
	c.disk.Set(key, value)
}

// Delete removes a value from both layers
func (c *LayeredCache) Delete(key string) {
	c.memory.Delete(key)
	c.disk.Delete(key)
}
