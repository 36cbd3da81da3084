package mesh

import "sync"

// Cache is a concurrency-safe mesh cache in front of a Loader. Misses
// are cached too, so a resource that is absent from disk is stat'd only
// once per batch run.
type Cache struct {
	mu     sync.RWMutex
	items  map[string]*cacheEntry
	loader Loader
}

type cacheEntry struct {
	mesh *Mesh
	err  error
}

// NewCache wraps a loader with caching.
func NewCache(loader Loader) *Cache {
	return &Cache{
		items:  make(map[string]*cacheEntry),
		loader: loader,
	}
}

// Load fetches a mesh, consulting the cache first.
func (c *Cache) Load(resourceID string) (*Mesh, error) {
	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[resourceID]; exists {
		c.mu.RUnlock()
		return entry.mesh, entry.err
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	m, err := c.loader.Load(resourceID)

	// Write lock with double-check
	c.mu.Lock()
	if entry, exists := c.items[resourceID]; exists {
		c.mu.Unlock()
		return entry.mesh, entry.err
	}
	c.items[resourceID] = &cacheEntry{mesh: m, err: err}
	c.mu.Unlock()

	return m, err
}
