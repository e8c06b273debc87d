// Package cache memoizes Engine.Search results by query fragment. A
// read-heavy, write-rare quick-search workload benefits from caching
// repeated queries between writes; this package is the external
// collaborator that provides it without the core engine knowing caching
// exists.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// entry pairs a cached walk_and_score result with the engine mutation
// epoch it was computed under, so a stale entry can be detected cheaply
// without the engine telling the cache it changed.
type entry[Item comparable] struct {
	epoch  uint64
	result map[Item]float64
}

// EpochSource reports the current value of a monotonically increasing
// mutation counter, the role qsearch.Engine.Epoch plays. Cache depends on
// this narrow interface rather than *qsearch.Engine so it stays decoupled
// from the core package.
type EpochSource func() uint64

// Cache is an LRU of recent Search results, keyed by query fragment.
type Cache[Item comparable] struct {
	lru   *lru.Cache[string, entry[Item]]
	epoch EpochSource
}

// New creates a Cache holding at most size entries. epoch supplies the
// current mutation counter; a cached entry whose epoch no longer matches
// is treated as a miss and evicted on next lookup.
func New[Item comparable](size int, epoch EpochSource) (*Cache[Item], error) {
	l, err := lru.New[string, entry[Item]](size)
	if err != nil {
		return nil, err
	}
	return &Cache[Item]{lru: l, epoch: epoch}, nil
}

// Get returns the cached result for fragment, if any, and whether it is
// still valid as of the current epoch.
func (c *Cache[Item]) Get(fragment string) (map[Item]float64, bool) {
	e, ok := c.lru.Get(fragment)
	if !ok {
		return nil, false
	}
	if e.epoch != c.epoch() {
		c.lru.Remove(fragment)
		return nil, false
	}
	return e.result, true
}

// Put records result as the cached value for fragment at the current
// epoch, evicting the least recently used entry if the cache is full.
func (c *Cache[Item]) Put(fragment string, result map[Item]float64) {
	c.lru.Add(fragment, entry[Item]{epoch: c.epoch(), result: result})
}

// Purge empties the cache, for use after a bulk mutation where per-key
// invalidation via epoch checking isn't worth the remaining stale entries.
func (c *Cache[Item]) Purge() {
	c.lru.Purge()
}

// Len returns the number of entries currently cached, stale or not.
func (c *Cache[Item]) Len() int {
	return c.lru.Len()
}
