// Package globcache accelerates repeated glob queries with pattern, result and stat caches
// and a fast path for extension-only patterns.
package globcache

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/krisalay/glob-cache/api"
	"github.com/krisalay/glob-cache/compiler"
	"github.com/krisalay/glob-cache/engine"
	"github.com/krisalay/glob-cache/expiration"
	"github.com/krisalay/glob-cache/fastpath"
	"github.com/krisalay/glob-cache/keys"
	"github.com/krisalay/glob-cache/patterncache"
	"github.com/krisalay/glob-cache/resultcache"
	"github.com/krisalay/glob-cache/statcache"
	"github.com/krisalay/glob-cache/types"
	"github.com/krisalay/glob-cache/walk"
)

// Config wires the collaborators of a Caches. Unset collaborators get defaults;
// see DefaultConfig for the default result staleness.
type Config struct {
	// Shards per table. Non-positive selects shard.DefaultShards.
	Shards int

	// ResultTTL is the staleness Glob tolerates. Zero or less accepts only
	// results stored at the same instant, so every query walks. DefaultConfig
	// sets resultcache.DefaultTTL.
	ResultTTL time.Duration

	// Compiler defaults to gobwas/glob.
	Compiler types.Compiler

	// FS defaults to the host filesystem.
	FS walk.FS

	// Metrics defaults to a Counters exposed through (*Caches).Counters.
	Metrics types.Metrics

	// Logger defaults to discarding everything.
	Logger *slog.Logger
}

/*
Caches is the registry of the three cache tables and the entry point that
uses them together.

The tables are independent: the pattern cache knows nothing of results, and
the result cache knows nothing of stat entries. Each may be replaced with any
implementation of its api interface before first use.
*/
type Caches struct {
	Patterns api.PatternCache
	Results  api.ResultCache
	Stat     api.StatCache

	engine    *engine.CacheEngine
	counters  *types.Counters
	fs        walk.FS
	resultTTL time.Duration

	// sf collapses concurrent identical queries into one traversal.
	sf singleflight.Group
}

// Stats is a snapshot of table sizes. The three sizes are read one after another,
// not atomically.
type Stats struct {
	PatternCacheSize int
	ResultCacheSize  int
	StatCacheSize    int
}

// DefaultConfig returns a Config with the default result staleness and
// default collaborators.
func DefaultConfig() Config {
	return Config{ResultTTL: resultcache.DefaultTTL}
}

// New creates a registry with three empty tables.
func New(cfg Config) *Caches {
	var counters *types.Counters
	metrics := cfg.Metrics
	if metrics == nil {
		counters = &types.Counters{}
		metrics = counters
	}

	comp := cfg.Compiler
	if comp == nil {
		comp = compiler.Gobwas{}
	}

	fsys := cfg.FS
	if fsys == nil {
		fsys = walk.OSFS{}
	}

	eng := engine.NewCacheEngine(expiration.ExpireAfterWrite{}, metrics, cfg.Logger)

	return &Caches{
		Patterns:  patterncache.New(comp, eng, cfg.Shards),
		Results:   resultcache.New(eng, cfg.Shards),
		Stat:      statcache.New(eng, cfg.Shards),
		engine:    eng,
		counters:  counters,
		fs:        fsys,
		resultTTL: cfg.ResultTTL,
	}
}

var (
	defaultOnce   sync.Once
	defaultCaches *Caches
)

// Default returns the process-wide registry, created empty on first use.
func Default() *Caches {
	defaultOnce.Do(func() {
		defaultCaches = New(DefaultConfig())
	})
	return defaultCaches
}

// ClearAllCaches empties all three tables.
func (c *Caches) ClearAllCaches() {
	c.Patterns.Clear()
	c.Results.Clear()
	c.Stat.Clear()
}

// CacheStats reports the current size of each table.
func (c *Caches) CacheStats() Stats {
	return Stats{
		PatternCacheSize: c.Patterns.Size(),
		ResultCacheSize:  c.Results.Size(),
		StatCacheSize:    c.Stat.Size(),
	}
}

// Counters returns the built-in hit/miss counters, or nil when Config.Metrics was set.
func (c *Caches) Counters() *types.Counters {
	return c.counters
}

/*
Match reports whether name matches pattern.

The fast path answers "**.ext" patterns, and "*.ext" patterns for names without
a separator, without compiling. Those are the cases where its suffix test agrees
with the compiled matcher. NoCase disables it. Everything else, including
patterns the fast path classifies as simple but cannot answer, goes through the
pattern cache.
*/
func (c *Caches) Match(pattern, name string, opts Options) (bool, error) {
	if r := fastMatch(pattern, name, opts); r != fastpath.Indeterminate {
		return r == fastpath.Match, nil
	}

	m, err := c.Patterns.GetOrCompile(pattern, opts.compileOptions())
	if err != nil {
		return false, err
	}
	return m.Match(name), nil
}

// fastMatch consults the fast path only where its answer equals the compiled one.
func fastMatch(pattern, name string, opts Options) fastpath.Result {
	if opts.NoCase || !fastpath.IsSimple(pattern) {
		return fastpath.Indeterminate
	}

	// the suffix test ignores separators, a single "*" does not cross them
	if !strings.HasPrefix(pattern, "**") && strings.ContainsAny(name, opts.separators()) {
		return fastpath.Indeterminate
	}
	return fastpath.TryMatch(pattern, name)
}

// queryPattern is one pattern of a query with its matcher compiled on first need.
type queryPattern struct {
	pattern  string
	compiled types.Matcher
}

func (c *Caches) matchAny(pats []queryPattern, name string, opts Options) (bool, error) {
	for i := range pats {
		qp := &pats[i]

		switch fastMatch(qp.pattern, name, opts) {
		case fastpath.Match:
			return true, nil
		case fastpath.NoMatch:
			continue
		}

		if qp.compiled == nil {
			m, err := c.Patterns.GetOrCompile(qp.pattern, opts.compileOptions())
			if err != nil {
				return false, err
			}
			qp.compiled = m
		}
		if qp.compiled.Match(name) {
			return true, nil
		}
	}
	return false, nil
}

/*
Glob returns the sorted slash-separated paths under cwd, relative to it, that
match any of patterns. An empty pattern set matches nothing and touches
neither the filesystem nor the caches.

A result stored for the same pattern set, cwd and key-affecting options within
the configured TTL is returned without touching the filesystem. Otherwise the
tree is walked, reading metadata through the stat cache, and the result is
stored. Compilation and traversal errors are returned and nothing is stored.

Concurrent identical queries share one traversal, and with it the first
caller's ctx.
*/
func (c *Caches) Glob(ctx context.Context, patterns []string, cwd string, opts Options) ([]string, error) {
	if len(patterns) == 0 {
		return []string{}, nil
	}
	if cwd == "" {
		cwd = "."
	}
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return nil, fmt.Errorf("resolve cwd %s: %w", cwd, err)
	}

	key := keys.Result(patterns, abs, opts)

	if res, ok := c.Results.GetWithTTL(key, c.resultTTL); ok {
		return res, nil
	}

	v, err, _ := c.sf.Do(key, func() (any, error) {
		res, err := c.query(ctx, patterns, abs, opts)
		if err != nil {
			return nil, err
		}
		c.Results.Set(key, res)
		return res, nil
	})
	if err != nil {
		return nil, err
	}

	return slices.Clone(v.([]string)), nil
}

func (c *Caches) query(ctx context.Context, patterns []string, root string, opts Options) ([]string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = c.engine.Logger
	}

	// patterns the fast path can never answer are compiled before walking,
	// so a malformed one fails the query without touching the filesystem
	pats := make([]queryPattern, 0, len(patterns))
	for _, p := range patterns {
		qp := queryPattern{pattern: p}
		if fastMatch(p, "", opts) == fastpath.Indeterminate {
			m, err := c.Patterns.GetOrCompile(p, opts.compileOptions())
			if err != nil {
				return nil, err
			}
			qp.compiled = m
		}
		pats = append(pats, qp)
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = c.fs
	}
	w := walk.Walker{FS: walk.CachedFS{FS: fsys, Cache: c.Stat}}

	start := time.Now()
	results := []string{}

	err := w.Walk(ctx, root, opts.walkOptions(), func(rel string, _ fs.FileInfo) error {
		ok, err := c.matchAny(pats, rel, opts)
		if err != nil {
			return err
		}
		if ok {
			results = append(results, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(results)

	logger.Debug("glob query",
		slog.Any("patterns", patterns),
		slog.String("cwd", root),
		slog.Int("matches", len(results)),
		slog.Duration("took", time.Since(start)),
	)

	return results, nil
}
