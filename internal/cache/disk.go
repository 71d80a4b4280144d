package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// DiskCache persists responses across runs as JSON entries on disk
type DiskCache struct {
	dir string
	ttl time.Duration
}

// NewDiskCache creates a disk cache rooted at dir
func NewDiskCache(dir string, ttl time.Duration) *DiskCache {
	return &DiskCache{dir: dir, ttl: ttl}
}

type diskEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get retrieves a value, dropping it if the entry has expired
func (c *DiskCache) Get(key string) ([]byte, bool) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry diskEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false
	}

	return entry.Data, true
}

// Set stores a value; failures are silent because the cache is advisory
func (c *DiskCache) Set(key string, value []byte) {
	entry := diskEntry{
		Data:      value,
		ExpiresAt: time.Now().Add(c.ttl),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return
	}

	_ = os.WriteFile(c.path(key), data, 0644)
}

// Delete removes a value from the cache
func (c *DiskCache) Delete(key string) {
	_ = os.Remove(c.path(key))
}

func (c *DiskCache) path(key string) string {
	return filepath.Join(c.dir, key+".cache")
}
