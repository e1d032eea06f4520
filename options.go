package globcache

import (
	"log/slog"

	"github.com/krisalay/glob-cache/types"
	"github.com/krisalay/glob-cache/walk"
)

// DefaultSeparators are the runes a single "*" does not cross.
const DefaultSeparators = "/"

/*
Options configures one match or query.

Only the fields listed by KeyFields select distinct cache entries. FS and
Logger are collaborators: they are assumed not to change which paths match
and never reach a cache key.
*/
type Options struct {
	// Separators overrides DefaultSeparators when non-empty.
	Separators string

	// NoCase matches case-insensitively. It also disables the fast path.
	NoCase bool

	// Dot includes entries whose name starts with ".".
	Dot bool

	// OnlyFiles drops directories from query results.
	OnlyFiles bool

	// FollowSymlinks resolves symlinks and descends into linked directories.
	FollowSymlinks bool

	// FS overrides the Caches' filesystem for this query.
	FS walk.FS

	// Logger overrides the Caches' logger for this query.
	Logger *slog.Logger
}

// KeyFields lists the key-affecting fields by name.
func (o Options) KeyFields() map[string]any {
	return map[string]any{
		"separators":     o.separators(),
		"nocase":         o.NoCase,
		"dot":            o.Dot,
		"onlyFiles":      o.OnlyFiles,
		"followSymlinks": o.FollowSymlinks,
	}
}

func (o Options) separators() string {
	if o.Separators == "" {
		return DefaultSeparators
	}
	return o.Separators
}

func (o Options) compileOptions() types.CompileOptions {
	return types.CompileOptions{Separators: o.separators(), NoCase: o.NoCase}
}

func (o Options) walkOptions() walk.Options {
	return walk.Options{Dot: o.Dot, OnlyFiles: o.OnlyFiles, FollowSymlinks: o.FollowSymlinks}
}
