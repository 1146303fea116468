package cache

import (
	"context"
	"sync"
	"time"

	"github.com/damon-houk/bond-curve-interpolation/internal/domain/entity"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/logger"
)

// DefaultExpiration is how long a loaded curve table stays cached
const DefaultExpiration = 5 * time.Minute

// CacheEntry represents a cached curve table with its load time
type CacheEntry struct {
	Table     *entity.CurveTable
	Timestamp time.Time
}

// CurveTableCache provides a thread-safe in-memory cache of parsed curve tables,
// keyed by source location or curve ID
type CurveTableCache struct {
	cache      map[string]CacheEntry
	expiration time.Duration
	now        func() time.Time
	mutex      sync.RWMutex
}

// NewCurveTableCache creates a new curve table cache.
// A non-positive expiration selects DefaultExpiration.
func NewCurveTableCache(expiration time.Duration) *CurveTableCache {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}
	return &CurveTableCache{
		cache:      make(map[string]CacheEntry),
		expiration: expiration,
		now:        time.Now,
	}
}

// Get retrieves a curve table if present and not expired
func (c *CurveTableCache) Get(source string) *entity.CurveTable {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.cache[source]
	if !exists || c.now().Sub(entry.Timestamp) > c.expiration {
		return nil
	}

	return entry.Table
}

// Put stores a curve table under its source
func (c *CurveTableCache) Put(source string, table *entity.CurveTable) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache[source] = CacheEntry{
		Table:     table,
		Timestamp: c.now(),
	}
}

// Invalidate drops the entry for one key
func (c *CurveTableCache) Invalidate(source string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.cache, source)
}

// Size returns the number of items in the cache, expired ones included
func (c *CurveTableCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// CleanExpired removes expired entries and returns how many were removed
func (c *CurveTableCache) CleanExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	count := 0
	now := c.now()

	for key, entry := range c.cache {
		if now.Sub(entry.Timestamp) > c.expiration {
			delete(c.cache, key)
			count++
		}
	}

	return count
}

// RunCleanup removes expired entries every interval until ctx is done
func (c *CurveTableCache) RunCleanup(ctx context.Context, interval time.Duration, log logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := c.CleanExpired(); removed > 0 && log != nil {
				log.Debug("Expired curves removed from cache", map[string]interface{}{
					"removed":   removed,
					"remaining": c.Size(),
				})
			}
		}
	}
}
