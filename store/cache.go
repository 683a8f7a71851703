package store

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/flotilladb/flotilla/tabular"
)

// Key identifies one logical table: a dataset file and a sheet within it.
type Key struct {
	Dataset string
	Table   string
}

func (k Key) String() string {
	return k.Dataset + "/" + k.Table
}

// CacheLayer holds the most recently read table per key. Entries are
// invalidated strictly by write events (each bumps the key's generation
// counter), never by staleness heuristics. The LRU cap is a memory safety
// valve only: an evicted entry is simply re-read from disk.
type CacheLayer struct {
	mutex       sync.Mutex
	entries     *lru.Cache
	generations map[Key]uint64
}

type cacheEntry struct {
	table      *tabular.Table
	generation uint64
}

func NewCacheLayer(maxEntries int) (*CacheLayer, error) {
	entries, err := lru.New(maxEntries)
	if err != nil {
		return nil, err
	}
	return &CacheLayer{
		entries:     entries,
		generations: map[Key]uint64{},
	}, nil
}

func (c *CacheLayer) Get(key Key) (*tabular.Table, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	value, exists := c.entries.Get(key)
	if !exists {
		return nil, false
	}

	entry := value.(*cacheEntry)
	if entry.generation != c.generations[key] {
		// Stale put raced an invalidation.
		c.entries.Remove(key)
		return nil, false
	}

	return entry.table.Clone(), true
}

func (c *CacheLayer) Put(key Key, table *tabular.Table) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	generation := c.generations[key]
	c.generations[key] = generation // ensure the key is tracked for dataset-wide invalidation
	c.entries.Add(key, &cacheEntry{
		table:      table.Clone(),
		generation: generation,
	})
}

// Invalidate discards the entry and bumps the key's generation so any
// in-flight Put of the old table can no longer surface.
func (c *CacheLayer) Invalidate(key Key) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.generations[key]++
	c.entries.Remove(key)
}

// InvalidateDataset invalidates every table cached under the dataset; used
// after a snapshot restore replaces the whole file.
func (c *CacheLayer) InvalidateDataset(dataset string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for key := range c.generations {
		if key.Dataset == dataset {
			c.generations[key]++
			c.entries.Remove(key)
		}
	}
}

func (c *CacheLayer) Generation(key Key) uint64 {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.generations[key]
}

// Clear drops every entry; used at shutdown.
func (c *CacheLayer) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries.Purge()
}
