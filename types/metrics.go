package types

import "sync/atomic"

// This file defines how the caches report what they are doing.

// Table names the cache a metrics event belongs to.
type Table string

const (
	PatternTable Table = "pattern"
	ResultTable  Table = "result"
	StatTable    Table = "stat"
)

/*
Metrics is called by every cache on each lookup outcome.
Implementations must be safe for concurrent use.
*/
type Metrics interface {

	// Hit is called when a lookup is answered from the table.
	Hit(Table)

	// Miss is called when a lookup finds nothing usable.
	Miss(Table)

	// Expire is called when a lookup finds an entry past its TTL and removes it.
	Expire(Table)
}

/*
NoopMetrics ignores all events.
It exists so the caches never need nil checks on the hot path.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit(Table)    {}
func (NoopMetrics) Miss(Table)   {}
func (NoopMetrics) Expire(Table) {}

// Counters is a lock-free Metrics implementation that keeps running totals per table.
type Counters struct {
	hits    [3]atomic.Int64
	misses  [3]atomic.Int64
	expired [3]atomic.Int64
}

// CounterSnapshot is a point-in-time copy of the counters for one table.
type CounterSnapshot struct {
	Hits    int64
	Misses  int64
	Expired int64
}

// HitRate returns hits as a percentage of lookups, or 0 before any lookup.
func (s CounterSnapshot) HitRate() float64 {
	total := s.Hits + s.Misses + s.Expired
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

func (c *Counters) Hit(t Table)    { c.hits[index(t)].Add(1) }
func (c *Counters) Miss(t Table)   { c.misses[index(t)].Add(1) }
func (c *Counters) Expire(t Table) { c.expired[index(t)].Add(1) }

// Snapshot returns the current totals for t.
func (c *Counters) Snapshot(t Table) CounterSnapshot {
	i := index(t)
	return CounterSnapshot{
		Hits:    c.hits[i].Load(),
		Misses:  c.misses[i].Load(),
		Expired: c.expired[i].Load(),
	}
}

func index(t Table) int {
	switch t {
	case ResultTable:
		return 1
	case StatTable:
		return 2
	default:
		return 0
	}
}
