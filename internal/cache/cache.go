// Package cache keeps scraped competitor pages between runs. Re-running the
// researcher for the same market within the TTL re-reads pages from here
// instead of re-hitting competitor sites or burning scrape-API credits.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching scraped pages
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a page URL. The version segment invalidates
// everything when the cached Page shape changes.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "localscout:v1:" + hex.EncodeToString(hash[:])
}
