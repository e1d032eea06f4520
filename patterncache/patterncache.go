// Package patterncache memoizes compiled matchers keyed by pattern and key-affecting options.
package patterncache

import (
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/krisalay/glob-cache/engine"
	"github.com/krisalay/glob-cache/keys"
	"github.com/krisalay/glob-cache/shard"
	"github.com/krisalay/glob-cache/types"
)

// Cache maps a pattern key to its compiled matcher. Entries live until Clear.
type Cache struct {
	table    *shard.Table[types.Matcher]
	compiler types.Compiler
	engine   *engine.CacheEngine

	// sf collapses concurrent misses for one key into a single compilation.
	sf singleflight.Group
}

// New creates an empty pattern cache in front of compiler.
func New(compiler types.Compiler, eng *engine.CacheEngine, shards int) *Cache {
	if eng == nil {
		eng = engine.Default()
	}

	return &Cache{
		table:    shard.New[types.Matcher](shards),
		compiler: compiler,
		engine:   eng,
	}
}

/*
GetOrCompile returns the matcher for pattern under opts, compiling it on a miss.

A hit returns the stored matcher without re-validating it against opts: only the
fields CompileOptions declares as key-affecting can select a different matcher.

If compilation fails the error is returned unchanged and nothing is stored, so the
next identical call compiles again.
*/
func (c *Cache) GetOrCompile(pattern string, opts types.CompileOptions) (types.Matcher, error) {
	key := keys.Pattern(pattern, opts)

	if m, ok := c.table.Get(key); ok {
		c.engine.Metrics.Hit(types.PatternTable)
		return m, nil
	}

	c.engine.Metrics.Miss(types.PatternTable)

	v, err, shared := c.sf.Do(key, func() (any, error) {
		// a flight that finished between our lookup and Do has already stored it
		if m, ok := c.table.Get(key); ok {
			return m, nil
		}

		m, err := c.compiler.Compile(pattern, opts)
		if err != nil {
			return nil, err
		}
		c.table.Put(key, m)
		return m, nil
	})
	if err != nil {
		c.engine.Logger.Debug("pattern compile failed",
			slog.String("pattern", pattern),
			slog.Any("error", err),
		)
		return nil, err
	}

	c.engine.Logger.Debug("pattern compiled",
		slog.String("pattern", pattern),
		slog.Bool("shared", shared),
	)

	return v.(types.Matcher), nil
}

// Clear removes every compiled matcher.
func (c *Cache) Clear() {
	c.table.Clear()
}

// Size returns the number of compiled matchers held.
func (c *Cache) Size() int {
	return c.table.Size()
}
