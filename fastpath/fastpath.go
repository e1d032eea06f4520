/*
Package fastpath answers match queries for a narrow set of patterns without
compiling them.

IsSimple accepts two shapes:
  - "*.ext" or "**.ext" where ext is one or more word characters
  - any pattern free of the characters ? [ ] { } ( ) + @ !

TryMatch resolves only the first shape. A pattern IsSimple accepts through the
second rule still gets Indeterminate from TryMatch, so IsSimple means "worth
trying TryMatch", never "TryMatch will answer". Callers must fall back to the
compiled matcher on Indeterminate.
*/
package fastpath

import (
	"regexp"
	"strings"
)

// Result is the outcome of TryMatch.
type Result int

const (
	// Indeterminate means the fast path cannot answer for this pattern.
	Indeterminate Result = iota
	NoMatch
	Match
)

func (r Result) String() string {
	switch r {
	case Match:
		return "match"
	case NoMatch:
		return "no-match"
	default:
		return "indeterminate"
	}
}

// specialChars are the extended-glob, bracket and brace characters.
const specialChars = "?[]{}()+@!"

var extPattern = regexp.MustCompile(`^\*\*?\.(\w+)$`)

// IsSimple reports whether pattern is eligible for TryMatch.
func IsSimple(pattern string) bool {
	return extPattern.MatchString(pattern) || !strings.ContainsAny(pattern, specialChars)
}

/*
TryMatch tests name against pattern when pattern is "*.ext" or "**.ext".

Both shapes reduce to a suffix test on ".ext" and ignore directories, so
"*.js" matches "a/b/c.js". Every other pattern yields Indeterminate.
*/
func TryMatch(pattern, name string) Result {
	m := extPattern.FindStringSubmatch(pattern)
	if m == nil {
		return Indeterminate
	}

	if strings.HasSuffix(name, "."+m[1]) {
		return Match
	}
	return NoMatch
}
