package cache

import (
	"sync"
	"time"

	"github.com/devi-jewellers/rate-service/internal/domain/entity"
)

// cacheEntry represents a cached live reading with its store time.
type cacheEntry struct {
	reading *entity.RateReading
	at      time.Time
}

// RateCache is a thread-safe in-memory cache for the latest live reading.
// The live endpoint advertises a five minute edge cache; this keeps the
// origin from hammering the upstream feed on cache misses in between.
type RateCache struct {
	mutex      sync.RWMutex
	entry      *cacheEntry
	expiration time.Duration
}

// NewRateCache creates a rate cache with a five minute default expiration.
func NewRateCache() *RateCache {
	return &RateCache{
		expiration: 5 * time.Minute,
	}
}

// Get returns the cached reading, or nil when absent or expired.
func (c *RateCache) Get() *entity.RateReading {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.entry == nil || time.Since(c.entry.at) > c.expiration {
		return nil
	}
	return c.entry.reading
}

// Put stores a reading.
func (c *RateCache) Put(reading *entity.RateReading) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entry = &cacheEntry{reading: reading, at: time.Now()}
}

// Clear drops the cached reading.
func (c *RateCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entry = nil
}

// SetExpiration sets the cache expiration duration.
func (c *RateCache) SetExpiration(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.expiration = duration
}
