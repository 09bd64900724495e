package store

import (
	"hash/maphash"
	"sync"
)

// shardCount is fixed rather than configurable: the spec asks for
// independent keys to proceed in parallel, not for a tunable shard
// count. A power of two keeps the hash-to-shard mapping a cheap mask.
const shardCount = 64

var shardSeed = maphash.MakeSeed()

func shardFor(key Key) int {
	var h maphash.Hash
	h.SetSeed(shardSeed)
	h.WriteString(key)
	return int(h.Sum64() & (shardCount - 1))
}

// ShardedMap is a fixed-width table of sync.RWMutex-guarded maps, hashed
// by key. It generalizes the teacher's single-lock-per-node tree
// (internal/memorystore/level.go's Level.lock) into per-key sharding: two
// keys landing in different shards never contend for the same lock.
type ShardedMap[V any] struct {
	shards [shardCount]shard[V]
}

type shard[V any] struct {
	mu sync.RWMutex
	m  map[Key]V
}

func NewShardedMap[V any]() *ShardedMap[V] {
	sm := &ShardedMap[V]{}
	for i := range sm.shards {
		sm.shards[i].m = make(map[Key]V)
	}
	return sm
}

func (sm *ShardedMap[V]) shard(key Key) *shard[V] {
	return &sm.shards[shardFor(key)]
}

func (sm *ShardedMap[V]) Get(key Key) (V, bool) {
	s := sm.shard(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

func (sm *ShardedMap[V]) Set(key Key, v V) {
	s := sm.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = v
}

func (sm *ShardedMap[V]) Delete(key Key) bool {
	s := sm.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.m[key]
	delete(s.m, key)
	return ok
}

// GetOrCreate returns the existing entry for key, or creates it with
// zero via the double-checked-locking pattern (RLock to try the fast
// path, upgrade to Lock only on a miss) grounded on Level.findLevelOrCreate.
func (sm *ShardedMap[V]) GetOrCreate(key Key, zero func() V) V {
	s := sm.shard(key)
	s.mu.RLock()
	if v, ok := s.m[key]; ok {
		s.mu.RUnlock()
		return v
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.m[key]; ok {
		return v
	}
	v := zero()
	s.m[key] = v
	return v
}

// WithLocked runs fn with the shard holding key locked for writing,
// giving callers an atomic read/modify/write on a single entry. fn must
// not block or call back into the same ShardedMap.
func (sm *ShardedMap[V]) WithLocked(key Key, fn func(v V, exists bool) (newV V, keep bool)) {
	s := sm.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	newV, keep := fn(v, ok)
	if keep {
		s.m[key] = newV
	} else if ok {
		delete(s.m, key)
	}
}

// Keys returns a snapshot of every key currently stored, across all
// shards. Used by KEYS and by the snapshot writer.
func (sm *ShardedMap[V]) Keys() []Key {
	keys := make([]Key, 0)
	for i := range sm.shards {
		s := &sm.shards[i]
		s.mu.RLock()
		for k := range s.m {
			keys = append(keys, k)
		}
		s.mu.RUnlock()
	}
	return keys
}

// Len reports the total number of entries across all shards.
func (sm *ShardedMap[V]) Len() int {
	n := 0
	for i := range sm.shards {
		s := &sm.shards[i]
		s.mu.RLock()
		n += len(s.m)
		s.mu.RUnlock()
	}
	return n
}

// Clear empties every shard in place, preserving the ShardedMap
// identity (required by FLUSHDB/FLUSHALL: the containing State is not
// replaced, only emptied).
func (sm *ShardedMap[V]) Clear() {
	for i := range sm.shards {
		s := &sm.shards[i]
		s.mu.Lock()
		s.m = make(map[Key]V)
		s.mu.Unlock()
	}
}

// Each calls fn for every key/value pair in the map. fn must not call
// back into the ShardedMap; Each only holds one shard's read lock at a
// time.
func (sm *ShardedMap[V]) Each(fn func(k Key, v V)) {
	for i := range sm.shards {
		s := &sm.shards[i]
		s.mu.RLock()
		for k, v := range s.m {
			fn(k, v)
		}
		s.mu.RUnlock()
	}
}
