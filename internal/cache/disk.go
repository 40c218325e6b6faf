package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DiskCache persists scraped pages across CLI invocations. Each entry is one
// JSON file under the cache directory, named by its key.
type DiskCache struct {
	dir string
	ttl time.Duration
}

// NewDiskCache creates a disk cache rooted at dir.
func NewDiskCache(dir string, ttl time.Duration) *DiskCache {
	return &DiskCache{dir: dir, ttl: ttl}
}

type diskEntry struct {
	Data      []byte    `json:"data"`
	FetchedAt time.Time `json:"fetched_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get returns a cached page, deleting it when expired or unreadable.
func (c *DiskCache) Get(key string) ([]byte, bool) {
	raw, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false
	}

	var entry diskEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		_ = os.Remove(c.path(key))
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(c.path(key))
		return nil, false
	}
	return entry.Data, true
}

// Set writes a page to disk. A zero ttl uses the cache default.
func (c *DiskCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}

	now := time.Now()
	raw, err := json.Marshal(diskEntry{
		Data:      value,
		FetchedAt: now,
		ExpiresAt: now.Add(ttl),
	})
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(key), raw, 0o644)
}

// Delete removes one entry.
func (c *DiskCache) Delete(key string) error {
	return os.Remove(c.path(key))
}

// Clear drops every cached page, leaving the directory in place.
func (c *DiskCache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".json") {
			_ = os.Remove(filepath.Join(c.dir, entry.Name()))
		}
	}
	return nil
}

// path maps a key to its file. Keys contain ':' which portable filenames
// cannot, so those are flattened.
func (c *DiskCache) path(key string) string {
	return filepath.Join(c.dir, strings.ReplaceAll(key, ":", "_")+".json")
}
