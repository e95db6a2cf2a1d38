// Package cache is a small TTL cache shared by the storage layer and the
// metrics service. It is constructed once in main and passed down.
package cache

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key prefixes shared by the writers that invalidate and the readers that
// fill the cache.
const (
	SheetPrefix   = "sheet:"
	MetricsPrefix = "metrics:"
)

type entry struct {
	value   any
	expires time.Time
}

// Cache bumps gen on every invalidation. A load that started under an older
// generation returns its result without storing it.
type Cache struct {
	mu       sync.RWMutex
	items    map[string]entry
	gen      uint64
	inflight map[string]int
	group    singleflight.Group
	now      func() time.Time
}

func New() *Cache {
	return &Cache{
		items:    make(map[string]entry),
		inflight: make(map[string]int),
		now:      time.Now,
	}
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		c.mu.Lock()
		// Re-check: a concurrent Set may have refreshed it.
		if cur, still := c.items[key]; still && !c.now().Before(cur.expires) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Set stores value for ttl. A non-positive ttl is a no-op.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.items[key] = entry{value: value, expires: c.now().Add(ttl)}
	c.mu.Unlock()
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.gen++
	c.mu.Unlock()

	c.group.Forget(key)
}

// InvalidatePrefix drops every key starting with prefix and reports how many
// were removed. An empty prefix clears the cache.
func (c *Cache) InvalidatePrefix(prefix string) int {
	c.mu.Lock()
	n := 0
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
			n++
		}
	}
	c.gen++

	var loading []string
	for k := range c.inflight {
		if strings.HasPrefix(k, prefix) {
			loading = append(loading, k)
		}
	}
	c.mu.Unlock()

	// Callers arriving after the invalidation must not join a load that
	// may have read the old data.
	for _, k := range loading {
		c.group.Forget(k)
	}
	return n
}

func (c *Cache) begin(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight[key]++
	return c.gen
}

// finish stores value only if nothing was invalidated since begin.
func (c *Cache) finish(key string, gen uint64, value any, ttl time.Duration, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight[key]--; c.inflight[key] <= 0 {
		delete(c.inflight, key)
	}
	if !ok || ttl <= 0 || gen != c.gen {
		return
	}
	c.items[key] = entry{value: value, expires: c.now().Add(ttl)}
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Load returns the cached value for key or calls load once, even under
// concurrent callers, and caches its result for ttl. A result is not cached
// when the cache was invalidated while it loaded.
func Load[T any](c *Cache, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if c == nil {
		return load()
	}

	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		gen := c.begin(key)
		res, err := load()
		c.finish(key, gen, res, ttl, err == nil)
		if err != nil {
			return nil, err
		}
		return res, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return v.(T), nil
}
