package shard

// DefaultShards is used when a table is created with a non-positive shard count.
const DefaultShards = 16

/*
Table is a concurrency-safe, unbounded string-keyed map split across shards.

It has no expiry and no eviction. Size is the sum of per-shard sizes and is
not atomic across shards: under concurrent writes it may mix instants.
*/
type Table[V any] struct {
	shards   []*Shard[V]
	selector Selector
}

// New creates an empty table with n shards.
func New[V any](n int) *Table[V] {
	if n <= 0 {
		n = DefaultShards
	}

	s := make([]*Shard[V], n)
	for i := range s {
		s[i] = newShard[V]()
	}

	return &Table[V]{shards: s, selector: HashSelector{}}
}

func (t *Table[V]) shard(key string) *Shard[V] {
	return t.shards[t.selector.Select(key, len(t.shards))]
}

// Get returns the value stored under key.
func (t *Table[V]) Get(key string) (V, bool) {
	return t.shard(key).get(key)
}

// Put stores v under key, replacing any previous value. Last write wins.
func (t *Table[V]) Put(key string, v V) {
	t.shard(key).put(key, v)
}

// Delete removes key. Removing a missing key is a no-op.
func (t *Table[V]) Delete(key string) {
	t.shard(key).delete(key)
}

/*
DeleteIf removes key only if pred reports true for the value currently stored.
The check and the removal happen under the same shard lock, so a value written
concurrently after the caller's read is never removed by mistake.
*/
func (t *Table[V]) DeleteIf(key string, pred func(V) bool) bool {
	return t.shard(key).deleteIf(key, pred)
}

// Size returns the number of stored entries.
func (t *Table[V]) Size() int {
	n := 0
	for _, s := range t.shards {
		n += s.len()
	}
	return n
}

// Clear removes every entry.
func (t *Table[V]) Clear() {
	for _, s := range t.shards {
		s.clear()
	}
}
