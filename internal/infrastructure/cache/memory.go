package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

// cacheEntry holds the cached listings for one normalized query
type cacheEntry struct {
	Listings   []string
	Expiration time.Time
}

// MemoryListingCache is a thread-safe in-memory listing cache with TTL
// support. Normalization is deterministic, so repeated catalog names map to
// the same key and skip a second marketplace search.
type MemoryListingCache struct {
	data  map[string]cacheEntry
	mutex sync.RWMutex
}

// NewMemoryListingCache creates a new in-memory listing cache
func NewMemoryListingCache() *MemoryListingCache {
	c := &MemoryListingCache{
		data: make(map[string]cacheEntry),
	}

	// Cleanup goroutine removes expired entries every 10 minutes
	go c.cleanupExpired()

	return c
}

// Get retrieves the cached listings for a key
func (c *MemoryListingCache) Get(ctx context.Context, key string) ([]string, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	if time.Now().After(entry.Expiration) {
		return nil, domain.ErrCacheMiss
	}

	// Copy so callers can't mutate the cached slice
	listings := make([]string, len(entry.Listings))
	copy(listings, entry.Listings)
	return listings, nil
}

// Set stores the listings for a key with a TTL
func (c *MemoryListingCache) Set(ctx context.Context, key string, listings []string, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	stored := make([]string, len(listings))
	copy(stored, listings)

	c.data[key] = cacheEntry{
		Listings:   stored,
		Expiration: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a key from the cache
func (c *MemoryListingCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Size returns the current number of entries (for debugging/monitoring)
func (c *MemoryListingCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// cleanupExpired removes expired entries periodically
func (c *MemoryListingCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, entry := range c.data {
			if now.After(entry.Expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}
