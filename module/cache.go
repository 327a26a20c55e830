// Package module implements the load-once module cache and filesystem
// resolution order of spec §6 ("Module contract"). It is deliberately
// decoupled from package eval: Cache.Get takes a Loader callback supplied
// by the caller (the evaluator passes a closure over its Config.ModuleLoader),
// so this package never imports eval and stays a pure cache + resolver.
package module

import (
	"fmt"
	"sync"

	"github.com/lattice-lang/lattice/value"
)

// Exports is the Map of a module's exported bindings (spec §6: "a
// successful load... builds a Map of exports").
type Exports = map[string]value.Value

// Loader executes a resolved module path and returns its exports. The
// evaluator supplies a closure that delegates to the host's
// Config.ModuleLoader, which does the loading and builds the export map.
type Loader func(absPath string) (Exports, error)

// Cache is the load-once-by-absolute-path cache from spec §3.5/§6. A
// re-entrant Get on a path already loading signals a circular-dependency
// error rather than recursing forever.
type Cache struct {
	mu      sync.Mutex
	loaded  map[string]Exports
	loading map[string]bool
}

func NewCache() *Cache {
	return &Cache{loaded: make(map[string]Exports), loading: make(map[string]bool)}
}

// Get returns path's cached exports, or calls load exactly once and caches
// the result. Concurrent callers for the same path serialize on the
// cache's own lock for the duration of a single load (modules are loaded
// from the single-threaded evaluator in practice; the lock exists for
// parallel scope blocks importing concurrently).
func (c *Cache) Get(absPath string, load Loader) (Exports, error) {
	c.mu.Lock()
	if exports, ok := c.loaded[absPath]; ok {
		c.mu.Unlock()
		return exports, nil
	}
	if c.loading[absPath] {
		c.mu.Unlock()
		return nil, fmt.Errorf("circular import detected: %q is already loading", absPath)
	}
	c.loading[absPath] = true
	c.mu.Unlock()

	exports, err := load(absPath)

	c.mu.Lock()
	delete(c.loading, absPath)
	if err == nil {
		c.loaded[absPath] = exports
	}
	c.mu.Unlock()

	return exports, err
}

// Invalidate drops a cached entry, forcing the next Get to reload it. Used
// by WatchingCache when the underlying file changes.
func (c *Cache) Invalidate(absPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.loaded, absPath)
}
