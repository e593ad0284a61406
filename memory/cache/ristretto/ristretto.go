// Package ristretto provides a bounded memory.Cache for long-lived
// processes serving many users, where the default unbounded map cache
// would grow with the number of distinct credentials seen.
//
// Ristretto's admission policy may decline to cache an entry; that only
// costs a re-download on the next load, never staleness, because the
// blob is authoritative.
package ristretto

import (
	"fmt"

	"github.com/dgraph-io/ristretto"

	"github.com/mnemoware/mnemo-go-sdk/memory"
)

// Cache implements memory.Cache over a ristretto cache. Each entry
// costs 1; MaxEntries bounds how many collections stay resident.
type Cache struct {
	inner *ristretto.Cache
}

// New creates a cache holding at most maxEntries collections.
func New(maxEntries int64) (*Cache, error) {
	inner, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create ristretto cache: %w", err)
	}

	return &Cache{inner: inner}, nil
}

// Get returns the cached collection for path, if resident.
func (c *Cache) Get(path string) (*memory.Collection, bool) {
	value, ok := c.inner.Get(path)
	if !ok {
		return nil, false
	}

	collection, ok := value.(*memory.Collection)
	return collection, ok
}

// Put records collection for path. Admission is best-effort.
func (c *Cache) Put(path string, collection *memory.Collection) {
	c.inner.Set(path, collection, 1)
	// Flush the set buffer so a put is visible to the next get on this
	// goroutine, matching the map cache's behavior.
	c.inner.Wait()
}

// Invalidate drops any entry for path.
func (c *Cache) Invalidate(path string) {
	c.inner.Del(path)
}
