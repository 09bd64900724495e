package store

// State holds the mutable contents of a single logical database: one of
// the many `Index`-selected databases tracked by a StateStore.
type State struct {
	KV           *ShardedMap[Value]
	Sets         *ShardedMap[*Set]
	Lists        *ShardedMap[*List]
	Hashes       *ShardedMap[*Hash]
	ZSets        *ShardedMap[*SortedSet]
	Stacks       *ShardedMap[*Stack]
	Blooms       *ShardedMap[*Bloom]
	HyperLogLogs *ShardedMap[*HyperLogLog]
	Receipts     *ReceiptMap
}

func NewState() *State {
	return &State{
		KV:           NewShardedMap[Value](),
		Sets:         NewShardedMap[*Set](),
		Lists:        NewShardedMap[*List](),
		Hashes:       NewShardedMap[*Hash](),
		ZSets:        NewShardedMap[*SortedSet](),
		Stacks:       NewShardedMap[*Stack](),
		Blooms:       NewShardedMap[*Bloom](),
		HyperLogLogs: NewShardedMap[*HyperLogLog](),
		Receipts:     NewReceiptMap(),
	}
}

// Clear empties every typed map in place without replacing the State
// itself, matching FLUSHDB/FLUSHALL's "clears... does not remove the
// State entries" semantics.
func (s *State) Clear() {
	s.KV.Clear()
	s.Sets.Clear()
	s.Lists.Clear()
	s.Hashes.Clear()
	s.ZSets.Clear()
	s.Stacks.Clear()
	s.Blooms.Clear()
	s.HyperLogLogs.Clear()
}

// GetSet/GetList/... return the container for key, creating it on first
// access (or_default semantics) under the shard's own lock.
func (s *State) GetSet(key Key) *Set {
	return s.Sets.GetOrCreate(key, func() *Set { return NewSet() })
}

func (s *State) GetList(key Key) *List {
	return s.Lists.GetOrCreate(key, func() *List { return NewList() })
}

func (s *State) GetHash(key Key) *Hash {
	return s.Hashes.GetOrCreate(key, func() *Hash { return NewHash() })
}

func (s *State) GetZSet(key Key) *SortedSet {
	return s.ZSets.GetOrCreate(key, func() *SortedSet { return NewSortedSet() })
}

func (s *State) GetStack(key Key) *Stack {
	return s.Stacks.GetOrCreate(key, func() *Stack { return NewStack() })
}

func (s *State) GetBloom(key Key) *Bloom {
	return s.Blooms.GetOrCreate(key, func() *Bloom { return NewBloom() })
}

func (s *State) GetHyperLogLog(key Key) *HyperLogLog {
	return s.HyperLogLogs.GetOrCreate(key, func() *HyperLogLog { return NewHyperLogLog() })
}
