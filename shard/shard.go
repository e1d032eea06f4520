package shard

import "sync"

/*
This file defines what a "Shard" is. A shard is a small, independent piece of a table.
Instead of one map behind one lock, a table is split into shards and each shard
holds some portion of the keys behind its own lock.

The caches here are unbounded and the stat cache is write-heavy during a traversal,
so a shard is a plain map behind an RWMutex rather than a copy-on-write snapshot.
*/
type Shard[V any] struct {
	mu   sync.RWMutex
	data map[string]V
}

func newShard[V any]() *Shard[V] {
	return &Shard[V]{data: make(map[string]V)}
}

func (s *Shard[V]) get(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	return v, ok
}

func (s *Shard[V]) put(key string, v V) {
	s.mu.Lock()
	s.data[key] = v
	s.mu.Unlock()
}

func (s *Shard[V]) delete(key string) {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
}

// deleteIf removes key only while pred holds for its current value.
func (s *Shard[V]) deleteIf(key string, pred func(V) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	if !ok || !pred(v) {
		return false
	}
	delete(s.data, key)
	return true
}

func (s *Shard[V]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *Shard[V]) clear() {
	s.mu.Lock()
	clear(s.data)
	s.mu.Unlock()
}
