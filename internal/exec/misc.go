package exec

import (
	"github.com/ccresp/respd/internal/ops"
	"github.com/ccresp/respd/internal/resp"
	"github.com/ccresp/respd/internal/store"
)

func execMisc(op ops.Op, st *store.State, ss *store.StateStore) store.ReturnValue {
	switch op.Kind {
	case ops.KindPing:
		return store.Pass(resp.SimpleStringValue([]byte("PONG")))

	case ops.KindFlushAll:
		ss.FlushAll()
		return store.Ok()

	case ops.KindFlushDB:
		st.Clear()
		return store.Ok()

	case ops.KindKeysList:
		var keys []string
		keys = append(keys, st.KV.Keys()...)
		keys = append(keys, st.Sets.Keys()...)
		keys = append(keys, st.Lists.Keys()...)
		keys = append(keys, st.Hashes.Keys()...)
		keys = append(keys, st.ZSets.Keys()...)
		keys = append(keys, st.Stacks.Keys()...)
		keys = append(keys, st.Blooms.Keys()...)
		keys = append(keys, st.HyperLogLogs.Keys()...)
		return store.MultiString(keys)

	case ops.KindExists:
		var n int64
		for _, k := range op.Keys {
			if keyExists(st, k) {
				n++
			}
		}
		return store.Int(n)

	case ops.KindPrintCmds:
		return store.Array([]store.ReturnValue{
			store.MultiString([]string{"GET", "SET", "MGET", "MSET", "DEL", "RENAME", "RENAMENX"}),
			store.MultiString([]string{"SADD", "SREM", "SMEMBERS", "SCARD", "SDIFF", "SUNION", "SINTER", "SDIFFSTORE", "SUNIONSTORE", "SINTERSTORE", "SPOP", "SISMEMBER", "SMOVE", "SRANDMEMBER"}),
			store.MultiString([]string{"LPUSH", "RPUSH", "LPUSHX", "RPUSHX", "LLEN", "LPOP", "RPOP", "LINDEX", "LSET", "BLPOP", "BRPOP"}),
			store.MultiString([]string{"HGET", "HSET", "HEXISTS", "HGETALL", "HMGET", "HKEYS", "HMSET", "HLEN", "HDEL"}),
			store.MultiString([]string{"ZADD", "ZREM", "ZRANGE"}),
			store.MultiString([]string{"STPUSH", "STPOP", "STPEEK", "STLEN"}),
			store.MultiString([]string{"BINSERT", "BCONTAINS"}),
			store.MultiString([]string{"PFADD"}),
			store.MultiString([]string{"PING", "FLUSHALL", "FLUSHDB", "KEYS", "EXISTS", "PRINTCMDS"}),
		})

	default:
		return store.Err("Unknown Operation!")
	}
}

func keyExists(st *store.State, k string) bool {
	if _, ok := st.KV.Get(k); ok {
		return true
	}
	if _, ok := st.Sets.Get(k); ok {
		return true
	}
	if _, ok := st.Lists.Get(k); ok {
		return true
	}
	if _, ok := st.Hashes.Get(k); ok {
		return true
	}
	if _, ok := st.ZSets.Get(k); ok {
		return true
	}
	if _, ok := st.Stacks.Get(k); ok {
		return true
	}
	if _, ok := st.Blooms.Get(k); ok {
		return true
	}
	if _, ok := st.HyperLogLogs.Get(k); ok {
		return true
	}
	return false
}
