package types

import "time"

// ResultEntry is one memoized glob query result.
// Results is owned by the result cache and never handed out directly.
type ResultEntry struct {
	Results   []string
	CreatedAt time.Time
}

// StatKind selects which filesystem metadata call an entry belongs to.
type StatKind string

const (
	// Lstat does not follow symlinks.
	Lstat StatKind = "lstat"

	// Stat follows symlinks.
	Stat StatKind = "stat"
)

// Normalize maps the zero kind to Lstat, which is the default lookup kind.
func (k StatKind) Normalize() StatKind {
	if k == "" {
		return Lstat
	}
	return k
}
