// Package resultcache memoizes whole glob query results for a bounded time.
package resultcache

import (
	"log/slog"
	"slices"
	"time"

	"github.com/krisalay/glob-cache/engine"
	"github.com/krisalay/glob-cache/shard"
	"github.com/krisalay/glob-cache/types"
)

// DefaultTTL is the staleness a caller of Get tolerates.
const DefaultTTL = 5000 * time.Millisecond

/*
Cache maps a query key to its result list.

Results are copied on Set and again on Get, so neither the slice a caller
stored nor the slice a caller received aliases the cached entry.

Expired entries are removed lazily, when a lookup finds them. There is no
background sweep and no size bound.
*/
type Cache struct {
	table  *shard.Table[*types.ResultEntry]
	engine *engine.CacheEngine
}

// New creates an empty result cache.
func New(eng *engine.CacheEngine, shards int) *Cache {
	if eng == nil {
		eng = engine.Default()
	}

	return &Cache{
		table:  shard.New[*types.ResultEntry](shards),
		engine: eng,
	}
}

// Get is GetWithTTL with DefaultTTL.
func (c *Cache) Get(key string) ([]string, bool) {
	return c.GetWithTTL(key, DefaultTTL)
}

/*
GetWithTTL returns the results stored under key if they are at most ttl old.
An entry older than ttl is deleted and reported absent. A ttl of zero or less
accepts only an entry stored at the current instant.
*/
func (c *Cache) GetWithTTL(key string, ttl time.Duration) ([]string, bool) {
	ent, ok := c.table.Get(key)
	if !ok {
		c.engine.Metrics.Miss(types.ResultTable)
		return nil, false
	}

	if c.engine.IsExpired(ent, ttl) {
		// only drop the entry we judged; a concurrent Set may have replaced it
		c.table.DeleteIf(key, func(cur *types.ResultEntry) bool { return cur == ent })

		c.engine.Metrics.Expire(types.ResultTable)
		c.engine.Logger.Debug("result expired",
			slog.String("key", key),
			slog.Duration("ttl", ttl),
		)
		return nil, false
	}

	c.engine.Metrics.Hit(types.ResultTable)
	return slices.Clone(ent.Results), true
}

// Set stores a copy of results under key, replacing any entry and restarting its age.
func (c *Cache) Set(key string, results []string) {
	ent := &types.ResultEntry{Results: slices.Clone(results)}
	if ent.Results == nil {
		ent.Results = []string{}
	}

	c.engine.OnWrite(ent)
	c.table.Put(key, ent)
}

// Clear removes every entry, expired or not.
func (c *Cache) Clear() {
	c.table.Clear()
}

// Size returns the number of stored entries, including expired ones not yet looked up.
func (c *Cache) Size() int {
	return c.table.Size()
}
