package memory

import "sync"

// MapCache is the default Cache: a mutex-guarded map keyed by storage
// path, unbounded, with no expiry. Entries live for the process
// lifetime or until invalidated. Safe for concurrent use across users.
type MapCache struct {
	mu      sync.RWMutex
	entries map[string]*Collection
}

// NewMapCache creates an empty MapCache.
func NewMapCache() *MapCache {
	return &MapCache{
		entries: make(map[string]*Collection),
	}
}

// Get returns the cached collection for path, if present.
func (c *MapCache) Get(path string) (*Collection, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	collection, ok := c.entries[path]
	return collection, ok
}

// Put records collection as the last known persisted state for path.
func (c *MapCache) Put(path string, collection *Collection) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[path] = collection
}

// Invalidate drops any entry for path.
func (c *MapCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, path)
}
