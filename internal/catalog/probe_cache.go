package catalog

import "sync"

// ProbeEntry is a memoized probe outcome.
type ProbeEntry struct {
	Seconds float64
	// Fallback marks an entry recorded after the prober failed.
	Fallback bool
}

// ProbeCache memoizes probe outcomes keyed by absolute path. Source files are
// treated as immutable for the lifetime of the cache, so entries are never
// invalidated.
type ProbeCache struct {
	mu      sync.RWMutex
	entries map[string]ProbeEntry
}

// NewProbeCache returns an empty cache.
func NewProbeCache() *ProbeCache {
	return &ProbeCache{entries: make(map[string]ProbeEntry)}
}

// Lookup returns the cached outcome for path.
func (c *ProbeCache) Lookup(path string) (ProbeEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[path]
	return entry, ok
}

// Store records the outcome for path.
func (c *ProbeCache) Store(path string, entry ProbeEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = entry
}
