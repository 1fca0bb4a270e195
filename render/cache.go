// ABOUTME: In-memory cache wrapping a DOT render function, keyed by sha256 of content and format.
// ABOUTME: Entries expire after a TTL; expired entries are swept opportunistically on insert.
package render

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

type cacheEntry struct {
	data      []byte
	createdAt time.Time
}

// Cache memoizes the results of a render Func. State graphs for a finished
// analysis never change, so repeated requests hit the cache instead of
// re-running graphviz.
type Cache struct {
	renderFn Func
	ttl      time.Duration
	mu       sync.RWMutex
	entries  map[string]cacheEntry
}

// NewCache wraps renderFn with a cache whose entries expire after ttl.
func NewCache(renderFn Func, ttl time.Duration) *Cache {
	return &Cache{
		renderFn: renderFn,
		ttl:      ttl,
		entries:  make(map[string]cacheEntry),
	}
}

// DOT renders dotText to format, returning a cached result when one is
// fresh. Errors are never cached.
func (c *Cache) DOT(ctx context.Context, dotText string, format string) ([]byte, error) {
	key := cacheKey(dotText, format)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && time.Since(entry.createdAt) < c.ttl {
		return entry.data, nil
	}

	data, err := c.renderFn(ctx, dotText, format)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.sweepLocked()
	c.entries[key] = cacheEntry{data: data, createdAt: time.Now()}
	c.mu.Unlock()

	return data, nil
}

// Len returns the number of cached entries, including expired ones that
// have not been swept yet.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// sweepLocked removes expired entries. Caller must hold the write lock.
func (c *Cache) sweepLocked() {
	cutoff := time.Now().Add(-c.ttl)
	for key, entry := range c.entries {
		if entry.createdAt.Before(cutoff) {
			delete(c.entries, key)
		}
	}
}

func cacheKey(dotText string, format string) string {
	return fmt.Sprintf("%x:%s", sha256.Sum256([]byte(dotText)), format)
}
