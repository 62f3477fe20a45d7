package cache

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"
)

// FeedCache holds rendered feed pages for a fixed TTL. Concurrent misses for
// the same key share one load. Entries are dropped by Invalidate or expire
// after the TTL; until then a reader may see a page that predates recent writes.
type FeedCache struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu         sync.Mutex // orders Invalidate against in-flight stores
	generation uint64
	entries    *lru.Cache
}

type entry struct {
	value   any
	expires time.Time
}

// NewFeedCache creates a cache of at most size entries. A non-positive ttl
// disables caching: every Get calls the loader.
func NewFeedCache(size int, ttl time.Duration) (*FeedCache, error) {
	entries, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed cache: %w", err)
	}
	return &FeedCache{ttl: ttl, now: time.Now, entries: entries}, nil
}

// SetClock replaces the time source used for expiry.
func (c *FeedCache) SetClock(now func() time.Time) {
	c.now = now
}

// Get returns the cached value for key or calls load and caches its result.
// hit reports whether the value came from the cache.
func (c *FeedCache) Get(key string, load func() (any, error)) (value any, hit bool, err error) {
	if c.ttl <= 0 {
		v, err := load()
		return v, false, err
	}

	if v, ok := c.lookup(key); ok {
		return v, true, nil
	}

	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()

	// loads started before an Invalidate are not shared with later callers
	v, err, _ := c.group.Do(fmt.Sprintf("%d|%s", gen, key), func() (any, error) {
		v, err := load()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		// a load that raced with Invalidate must not repopulate stale data
		if gen == c.generation {
			c.entries.Add(key, entry{value: v, expires: c.now().Add(c.ttl)})
		}
		return v, nil
	})
	return v, false, err
}

func (c *FeedCache) lookup(key string) (any, bool) {
	raw, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	e := raw.(entry)
	if !c.now().Before(e.expires) {
		c.entries.Remove(key)
		return nil, false
	}
	return e.value, true
}

// Invalidate drops every cached entry.
func (c *FeedCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.entries.Purge()
}

// Len reports the number of cached entries, expired ones included.
func (c *FeedCache) Len() int {
	return c.entries.Len()
}
