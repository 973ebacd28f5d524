// Package cache provides an in-process TTL cache for fetched series, with
// singleflight population so concurrent callers share one upstream request.
package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/credi-research/econ-cli/internal/model"
)

// FetchFunc loads a series from the upstream source on a cache miss.
type FetchFunc func(ctx context.Context) (model.Series, error)

type entry struct {
	series    model.Series
	expiresAt time.Time
}

// SeriesCache caches series by key with a fixed TTL. Entries past their TTL
// are refetched on next access; errors are never cached.
type SeriesCache struct {
	ttl        time.Duration
	maxEntries int

	mu      sync.Mutex
	entries map[string]entry
	group   singleflight.Group

	// now is swappable for tests.
	now func() time.Time
}

// New creates a SeriesCache. maxEntries <= 0 means unbounded.
func New(ttl time.Duration, maxEntries int) *SeriesCache {
	return &SeriesCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]entry),
		now:        time.Now,
	}
}

// GetOrFetch returns the cached series for key, or runs fetch to populate it.
// Concurrent calls for the same key share a single fetch.
func (c *SeriesCache) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) (model.Series, error) {
	if s, ok := c.lookup(key); ok {
		zap.L().Debug("series cache hit", zap.String("key", key))
		return s, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Another caller may have populated the entry while this one waited
		// on the flight group.
		if s, ok := c.lookup(key); ok {
			return s, nil
		}

		s, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.put(key, s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(model.Series), nil
}

// Invalidate removes one key.
func (c *SeriesCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Purge removes all entries.
func (c *SeriesCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len returns the number of live entries, counting expired ones until they
// are evicted on access.
func (c *SeriesCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *SeriesCache) lookup(key string) (model.Series, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.series, true
}

func (c *SeriesCache) put(key string, s model.Series) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[key] = entry{series: s, expiresAt: c.now().Add(c.ttl)}
}

// evictOldestLocked drops the entry closest to expiry. Called with mu held.
func (c *SeriesCache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.expiresAt.Before(oldest) {
			oldestKey = k
			oldest = e.expiresAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
