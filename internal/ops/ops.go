package ops

// Kind is the command tag: the Op sum's discriminant. Grouped in
// comments by the same {Keys, Sets, Lists, Hashes, ZSets, Stacks,
// Blooms, HyperLogLogs, Misc} families the translator and executors are
// organized around.
type Kind int

const (
	// Misc
	KindPing Kind = iota
	KindFlushAll
	KindFlushDB
	KindKeysList
	KindExists
	KindPrintCmds

	// Keys
	KindGet
	KindSet
	KindMGet
	KindMSet
	KindDel
	KindRename
	KindRenameNX

	// Sets
	KindSAdd
	KindSRem
	KindSMembers
	KindSCard
	KindSDiff
	KindSUnion
	KindSInter
	KindSDiffStore
	KindSUnionStore
	KindSInterStore
	KindSPop
	KindSIsMember
	KindSMove
	KindSRandMember

	// Lists
	KindLPush
	KindRPush
	KindLPushX
	KindRPushX
	KindLLen
	KindLPop
	KindRPop
	KindLIndex
	KindLSet
	KindBLPop
	KindBRPop

	// Hashes
	KindHGet
	KindHSet
	KindHExists
	KindHGetAll
	KindHMGet
	KindHKeys
	KindHMSet
	KindHLen
	KindHDel

	// ZSets
	KindZAdd
	KindZRem
	KindZRange

	// Bloom
	KindBInsert
	KindBContains

	// HyperLogLog
	KindPFAdd

	// Stacks
	KindSTPush
	KindSTPop
	KindSTPeek
	KindSTLen
)

// ScoreMember is one (score, member) pair from a ZADD argument list.
type ScoreMember struct {
	Score  int64
	Member string
}

// KV is one (key, value) or (field, value) pair from an even-arity
// argument list (MSET, HMSET).
type KV struct {
	Key   string
	Value string
}

// Op is the single concrete representation every translated command is
// normalized into; Kind selects which of the fields below are
// meaningful, the same way a sum type's variant selects its payload.
type Op struct {
	Kind Kind
	// Name is the uppercased command name as received, kept only for
	// logging and metrics labels; executors switch on Kind, never Name.
	Name string

	Key  string
	Key2 string // RENAME/RENAMENX/SMOVE destination, *STORE destination

	Keys    []string // DEL, EXISTS, MGET, SDIFF/SUNION/SINTER(STORE)
	Members []string // SADD, SREM, PFADD values, generic variadic values
	Member  string    // single value: SET's value, SISMEMBER's member, SMOVE's member

	Pairs []KV // MSET, HMSET

	Field  string   // HGET/HEXISTS/HSET field
	Fields []string // HMGET, HDEL

	ScoreMembers []ScoreMember // ZADD

	Index1 int64 // LINDEX/LSET index, ZRANGE start
	Index2 int64 // ZRANGE stop

	Count    int64 // SPOP/SRANDMEMBER optional count
	HasCount bool

	TimeoutMS int64 // BLPOP/BRPOP timeout in milliseconds, 0 means block indefinitely
}
