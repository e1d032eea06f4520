// Package statcache memoizes filesystem metadata lookups by path and lookup kind.
//
// Entries never expire. The cache is only safe to reuse while the filesystem is
// assumed not to change underneath it, typically for the span of one query; longer-lived
// callers clear it or invalidate paths themselves.
package statcache

import (
	"io/fs"

	"github.com/krisalay/glob-cache/engine"
	"github.com/krisalay/glob-cache/keys"
	"github.com/krisalay/glob-cache/shard"
	"github.com/krisalay/glob-cache/types"
)

// Cache maps (kind, path) to the metadata last recorded for it.
type Cache struct {
	table  *shard.Table[fs.FileInfo]
	engine *engine.CacheEngine
}

// New creates an empty stat cache.
func New(eng *engine.CacheEngine, shards int) *Cache {
	if eng == nil {
		eng = engine.Default()
	}

	return &Cache{
		table:  shard.New[fs.FileInfo](shards),
		engine: eng,
	}
}

// Get returns the metadata recorded for path under kind. The zero kind means lstat.
// An lstat entry never answers a stat lookup and vice versa.
func (c *Cache) Get(path string, kind types.StatKind) (fs.FileInfo, bool) {
	info, ok := c.table.Get(keys.Stat(path, kind))
	if ok {
		c.engine.Metrics.Hit(types.StatTable)
	} else {
		c.engine.Metrics.Miss(types.StatTable)
	}
	return info, ok
}

// Set records info for path under kind, replacing any previous entry.
func (c *Cache) Set(path string, info fs.FileInfo, kind types.StatKind) {
	c.table.Put(keys.Stat(path, kind), info)
}

// Invalidate drops both the lstat and the stat entry for path.
func (c *Cache) Invalidate(path string) {
	c.table.Delete(keys.Stat(path, types.Lstat))
	c.table.Delete(keys.Stat(path, types.Stat))
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.table.Clear()
}

// Size returns the number of stored entries; one path may count twice.
func (c *Cache) Size() int {
	return c.table.Size()
}
