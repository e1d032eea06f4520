package api

import (
	"io/fs"
	"time"

	"github.com/krisalay/glob-cache/types"
)

/*
Table is the lifecycle every cache exposes to the admin facade.
Both methods are total: they never fail and never block on I/O.
*/
type Table interface {

	// Clear removes every entry unconditionally.
	Clear()

	// Size returns the current entry count.
	Size() int
}

/*
PatternCache memoizes compiled matchers.

BEHAVIOR:
---------
- A hit returns the stored matcher unchanged
- A miss compiles synchronously, stores, and returns the matcher
- A failed compilation returns the engine's error and stores nothing
*/
type PatternCache interface {
	Table
	GetOrCompile(pattern string, opts types.CompileOptions) (types.Matcher, error)
}

/*
ResultCache memoizes query results with per-lookup staleness.

BEHAVIOR:
---------
- Get tolerates the default TTL, GetWithTTL the given one
- An entry older than the TTL is removed and reported absent
- Set overwrites and restarts the entry's age
- Neither the stored nor the returned slice aliases the cached entry
*/
type ResultCache interface {
	Table
	Get(key string) ([]string, bool)
	GetWithTTL(key string, ttl time.Duration) ([]string, bool)
	Set(key string, results []string)
}

/*
StatCache memoizes filesystem metadata by (path, kind).

BEHAVIOR:
---------
- Entries never expire
- lstat and stat entries for one path are independent
- Invalidate drops both kinds for one path
*/
type StatCache interface {
	Table
	Get(path string, kind types.StatKind) (fs.FileInfo, bool)
	Set(path string, info fs.FileInfo, kind types.StatKind)
	Invalidate(path string)
}
