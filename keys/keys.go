// Package keys derives the deterministic string identities the caches are keyed by.
//
// Only fields an option set declares as key-affecting reach a key. Two option sets that
// differ in field order, or only in fields they do not declare, produce the same key.
package keys

import (
	"encoding/json"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/krisalay/glob-cache/types"
)

// patternSeparator joins a sorted pattern set. NUL cannot appear in a path or a pattern.
const patternSeparator = "\x00"

// Fielder is implemented by option sets that take part in key derivation.
// KeyFields returns the enumerated key-affecting fields by name.
type Fielder interface {
	KeyFields() map[string]any
}

type patternKey struct {
	Pattern string         `json:"pattern"`
	Options map[string]any `json:"options"`
}

type resultKey struct {
	Patterns string         `json:"patterns"`
	Cwd      string         `json:"cwd"`
	Options  map[string]any `json:"options"`
}

// Pattern returns the pattern cache key for pattern compiled under opts.
func Pattern(pattern string, opts Fielder) string {
	return encode(patternKey{Pattern: pattern, Options: project(opts)})
}

/*
Result returns the result cache key for a whole query.
The pattern set is sorted first, so ["b","a"] and ["a","b"] share a key.
The caller's slice is not modified.
*/
func Result(patterns []string, cwd string, opts Fielder) string {
	sorted := slices.Clone(patterns)
	slices.Sort(sorted)

	return encode(resultKey{
		Patterns: strings.Join(sorted, patternSeparator),
		Cwd:      cwd,
		Options:  project(opts),
	})
}

// Stat returns the stat cache key for path under kind. The zero kind is lstat.
func Stat(path string, kind types.StatKind) string {
	return string(kind.Normalize()) + ":" + path
}

/*
project builds the filtered projection of opts.

encoding/json writes map keys in sorted order, which gives the canonical field order.
Values that cannot be serialized canonically are dropped, so a misbehaving Fielder can
widen a key collision but never make derivation fail.
*/
func project(opts Fielder) map[string]any {
	out := map[string]any{}
	if opts == nil {
		return out
	}

	for name, v := range opts.KeyFields() {
		if serializable(v) {
			out[name] = v
		}
	}
	return out
}

func serializable(v any) bool {
	if v == nil {
		return false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	case reflect.Slice:
		return rv.Type().Elem().Kind() == reflect.String
	default:
		return false
	}
}

func encode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		// unreachable: project only admits values json encodes without error
		panic("keys: encode: " + err.Error())
	}
	return string(b)
}
