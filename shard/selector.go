package shard

import "github.com/cespare/xxhash/v2"

/*
This file decides HOW a key is assigned to a shard.
If every key went to the same shard, that shard's lock would become a bottleneck.
*/

// Selector decides which shard index handles a key.
type Selector interface {
	Select(key string, n int) int
}

// HashSelector spreads keys with xxhash, a fast non-cryptographic 64-bit hash.
type HashSelector struct{}

func (HashSelector) Select(key string, n int) int {
	return int(xxhash.Sum64String(key) % uint64(n))
}
