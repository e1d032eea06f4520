package types

// Matcher is a compiled pattern. It is reusable and never mutated after creation.
type Matcher interface {
	Match(name string) bool
}

/*
Compiler is the contract between the pattern cache and the pattern-compilation engine.

The cache never looks inside a Matcher. It only:
 1. Derives a key from the pattern and its key-affecting options
 2. Calls Compile on a miss
 3. Stores the Matcher if compilation succeeded

A failed compilation is returned to the caller as-is and nothing is stored.
*/
type Compiler interface {
	Compile(pattern string, opts CompileOptions) (Matcher, error)
}

// CompileOptions is the part of the query options that can change how a pattern compiles.
type CompileOptions struct {
	Separators string
	NoCase     bool
}

// CompilerFunc adapts a plain function to the Compiler interface.
type CompilerFunc func(pattern string, opts CompileOptions) (Matcher, error)

func (f CompilerFunc) Compile(pattern string, opts CompileOptions) (Matcher, error) {
	return f(pattern, opts)
}

// MatcherFunc adapts a plain function to the Matcher interface.
type MatcherFunc func(name string) bool

func (f MatcherFunc) Match(name string) bool { return f(name) }

// KeyFields lists the fields that select a distinct compiled matcher.
func (o CompileOptions) KeyFields() map[string]any {
	return map[string]any{
		"separators": o.Separators,
		"nocase":     o.NoCase,
	}
}
