// File: internal/session/store.go
// Package session
// Author: momentics <momentics@gmail.com>
//
// Sharded, thread-safe connection table.

package session

import (
	"sync"

	"github.com/momentics/hioload-collator/api"
)

const defaultShards = 16

// Store maps connection ids to values of type V. Ids are spread over
// power-of-two shards so concurrent connections rarely share a lock.
type Store[V any] struct {
	shards []*shard[V]
	mask   uint64
}

type shard[V any] struct {
	mu    sync.RWMutex
	items map[api.ConnectionID]V
}

// NewStore constructs a store with at least shardCount shards.
func NewStore[V any](shardCount int) *Store[V] {
	if shardCount <= 0 {
		shardCount = defaultShards
	}
	m := nextPowerOfTwo(uint32(shardCount))
	shards := make([]*shard[V], m)
	for i := range shards {
		shards[i] = &shard[V]{items: make(map[api.ConnectionID]V)}
	}
	return &Store[V]{shards: shards, mask: uint64(m - 1)}
}

func (s *Store[V]) shard(id api.ConnectionID) *shard[V] {
	return s.shards[uint64(id)&s.mask]
}

// Put stores v under id. It reports false and leaves the store unchanged
// when id is already present.
func (s *Store[V]) Put(id api.ConnectionID, v V) bool {
	sh := s.shard(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.items[id]; ok {
		return false
	}
	sh.items[id] = v
	return true
}

// Get fetches the value for id.
func (s *Store[V]) Get(id api.ConnectionID) (V, bool) {
	sh := s.shard(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	v, ok := sh.items[id]
	return v, ok
}

// Delete removes id and returns its value.
func (s *Store[V]) Delete(id api.ConnectionID) (V, bool) {
	sh := s.shard(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	v, ok := sh.items[id]
	if ok {
		delete(sh.items, id)
	}
	return v, ok
}

// Range calls fn for every entry until fn returns false. fn runs without
// any shard lock held, so it may call back into the store.
func (s *Store[V]) Range(fn func(api.ConnectionID, V) bool) {
	for _, sh := range s.shards {
		sh.mu.RLock()
		ids := make([]api.ConnectionID, 0, len(sh.items))
		vals := make([]V, 0, len(sh.items))
		for id, v := range sh.items {
			ids = append(ids, id)
			vals = append(vals, v)
		}
		sh.mu.RUnlock()
		for i := range ids {
			if !fn(ids[i], vals[i]) {
				return
			}
		}
	}
}

// Len returns the number of entries.
func (s *Store[V]) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.items)
		sh.mu.RUnlock()
	}
	return n
}

// nextPowerOfTwo returns the next power-of-two >= v.
func nextPowerOfTwo(v uint32) uint32 {
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v++
	return v
}
