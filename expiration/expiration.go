// This file defines how cached results expire over time.

package expiration

import (
	"time"

	"github.com/krisalay/glob-cache/types"
)

/*
Strategy is the interface that all expiration rules must follow.
The TTL is supplied per lookup, so the same entry can be fresh for one caller
and stale for a stricter one.
*/
type Strategy interface {

	// IsExpired reports whether ent is too old for a caller tolerating ttl.
	IsExpired(ent *types.ResultEntry, ttl time.Duration, now time.Time) bool

	// OnWrite is called whenever an entry is written or replaced.
	OnWrite(ent *types.ResultEntry, now time.Time)
}
