package rock

import (
	"sync"

	"github.com/stonefell/petrogen/internal/geometry"
)

// cacheVariants is the number of distinct cached meshes kept per
// (shape, category) pair. A handful of variants is enough to hide
// repetition once rocks are rotated and scaled.
const cacheVariants = 4

type cacheKey struct {
	tag     Shape
	cat     Category
	variant uint32
}

// MeshCache memoizes unit-size base meshes by a coarse parameter tuple.
// It is owned by the caller (typically one per region) and passed to the
// factory by reference; a nil cache disables memoization. The mutex
// makes it safe for regions generating concurrently.
type MeshCache struct {
	mu      sync.Mutex
	entries map[cacheKey]*geometry.Mesh
	hits    int
	misses  int
}

// NewMeshCache returns an empty cache.
func NewMeshCache() *MeshCache {
	return &MeshCache{entries: make(map[cacheKey]*geometry.Mesh)}
}

// Get returns a private copy of the cached mesh for the key, building
// and storing it on first use. Callers always receive a clone, so every
// instance keeps exclusive ownership of its mesh.
func (c *MeshCache) Get(tag Shape, cat Category, variant uint32, build func() *geometry.Mesh) *geometry.Mesh {
	key := cacheKey{tag: tag, cat: cat, variant: variant}

	c.mu.Lock()
	cached, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()

	if ok {
		return cached.Clone()
	}

	// Build outside the lock; generation is the expensive part.
	mesh := build()

	c.mu.Lock()
	if existing, raced := c.entries[key]; raced {
		// Another region built the same entry first; keep theirs.
		mesh = existing
	} else {
		c.entries[key] = mesh
	}
	c.mu.Unlock()

	return mesh.Clone()
}

// Stats returns hit and miss counts.
func (c *MeshCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Invalidate drops all cached meshes. Called on region teardown so a
// reloaded region regenerates from fresh templates.
func (c *MeshCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]*geometry.Mesh)
}

// Len returns the number of cached entries.
func (c *MeshCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
