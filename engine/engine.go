package engine

import (
	"io"
	"log/slog"
	"time"

	"github.com/krisalay/glob-cache/expiration"
	"github.com/krisalay/glob-cache/types"
)

/*
CacheEngine is the policy layer shared by the pattern, result and stat caches.
It is responsible for the "behavior" of the caches, NOT storage.

It decides:
- When a result entry is expired
- What instant counts as "now"
- Where lookup outcomes are reported (metrics and logs)

It does NOT:
- Store data
- Handle sharding or locking
- Evict anything
*/
type CacheEngine struct {

	// Expiration decides when a result entry is too old.
	// If nil, result entries never expire.
	Expiration expiration.Strategy

	// Metrics receives hit/miss/expire events. Never nil after NewCacheEngine.
	Metrics types.Metrics

	// Logger receives debug events. Never nil after NewCacheEngine.
	Logger *slog.Logger

	// Now is the clock. Tests replace it to step time without sleeping.
	Now func() time.Time
}

/*
NewCacheEngine creates a CacheEngine.
A nil metrics or logger is replaced with a no-op implementation.
*/
func NewCacheEngine(
	exp expiration.Strategy,
	metrics types.Metrics,
	logger *slog.Logger,
) *CacheEngine {
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &CacheEngine{
		Expiration: exp,
		Metrics:    metrics,
		Logger:     logger,
		Now:        time.Now,
	}
}

// Default returns an engine with write-based expiry and no metrics or logging.
func Default() *CacheEngine {
	return NewCacheEngine(expiration.ExpireAfterWrite{}, nil, nil)
}

// IsExpired reports whether ent is older than ttl at the engine's current instant.
func (e *CacheEngine) IsExpired(ent *types.ResultEntry, ttl time.Duration) bool {
	return e.Expiration != nil &&
		e.Expiration.IsExpired(ent, ttl, e.Now())
}

// OnWrite applies write-time expiration rules to a new entry.
func (e *CacheEngine) OnWrite(ent *types.ResultEntry) {
	if e.Expiration != nil {
		e.Expiration.OnWrite(ent, e.Now())
	}
}
