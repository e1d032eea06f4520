// Package compiler adapts github.com/gobwas/glob to the types.Compiler contract.
package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/krisalay/glob-cache/types"
)

// ErrInvalidPattern wraps every rejection from the glob engine.
var ErrInvalidPattern = errors.New("invalid pattern")

// Gobwas compiles patterns with gobwas/glob. The zero value is ready to use.
type Gobwas struct{}

var _ types.Compiler = Gobwas{}

/*
Compile builds a matcher for pattern.

opts.Separators lists the runes "*" does not cross; "**" crosses them.
With opts.NoCase both the pattern and every candidate are lower-cased.
*/
func (Gobwas) Compile(pattern string, opts types.CompileOptions) (types.Matcher, error) {
	src := pattern
	if opts.NoCase {
		src = strings.ToLower(src)
	}

	g, err := glob.Compile(src, []rune(opts.Separators)...)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
	}

	if opts.NoCase {
		return types.MatcherFunc(func(name string) bool {
			return g.Match(strings.ToLower(name))
		}), nil
	}
	return g, nil
}
