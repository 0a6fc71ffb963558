package search

import (
	"sync"

	"github.com/poiesic/pagesearch/core"
)

type cachedResult struct {
	ref      core.Element
	category core.Category
}

// ResultCache maps result ids from the latest search to their elements.
// It is safe for concurrent use.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]cachedResult
	ids     []string
}

// NewResultCache creates an empty cache.
func NewResultCache() *ResultCache {
	return &ResultCache{entries: make(map[string]cachedResult)}
}

// Reset drops every entry. Called at the start of each search.
func (c *ResultCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cachedResult)
	c.ids = nil
}

// Put records the element behind a result id.
func (c *ResultCache) Put(id string, ref core.Element, category core.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[id]; !exists {
		c.ids = append(c.ids, id)
	}
	c.entries[id] = cachedResult{ref: ref, category: category}
}

// Get returns the element and category cached under id.
func (c *ResultCache) Get(id string) (core.Element, core.Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[id]
	return entry.ref, entry.category, ok
}

// Len returns the number of cached results.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// IDs returns the cached ids in insertion order.
func (c *ResultCache) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}
