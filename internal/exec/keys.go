package exec

import (
	"github.com/ccresp/respd/internal/ops"
	"github.com/ccresp/respd/internal/store"
)

func execKeys(op ops.Op, st *store.State) store.ReturnValue {
	switch op.Kind {
	case ops.KindGet:
		v, ok := st.KV.Get(op.Key)
		if !ok {
			return store.Nil()
		}
		return store.String(v)

	case ops.KindSet:
		st.KV.Set(op.Key, op.Member)
		return store.Ok()

	case ops.KindMGet:
		out := make([]store.ReturnValue, len(op.Keys))
		for i, k := range op.Keys {
			if v, ok := st.KV.Get(k); ok {
				out[i] = store.String(v)
			} else {
				out[i] = store.Nil()
			}
		}
		return store.Array(out)

	case ops.KindMSet:
		for _, kv := range op.Pairs {
			st.KV.Set(kv.Key, kv.Value)
		}
		return store.Ok()

	case ops.KindDel:
		var n int64
		for _, k := range op.Keys {
			if deleteKey(st, k) {
				n++
			}
		}
		return store.Int(n)

	case ops.KindRename:
		v, ok := st.KV.Get(op.Key)
		if !ok {
			return store.Err("no such key")
		}
		st.KV.Set(op.Key2, v)
		st.KV.Delete(op.Key)
		return store.Ok()

	case ops.KindRenameNX:
		v, ok := st.KV.Get(op.Key)
		if !ok {
			return store.Err("no such key")
		}
		if _, exists := st.KV.Get(op.Key2); exists {
			return store.Int(0)
		}
		st.KV.Set(op.Key2, v)
		st.KV.Delete(op.Key)
		return store.Int(1)

	default:
		return store.Err("Unknown Operation!")
	}
}

// deleteKey removes k from whichever typed map holds it, reporting
// whether anything was actually removed.
func deleteKey(st *store.State, k string) bool {
	deleted := false
	if st.KV.Delete(k) {
		deleted = true
	}
	if st.Sets.Delete(k) {
		deleted = true
	}
	if st.Lists.Delete(k) {
		deleted = true
	}
	if st.Hashes.Delete(k) {
		deleted = true
	}
	if st.ZSets.Delete(k) {
		deleted = true
	}
	if st.Stacks.Delete(k) {
		deleted = true
	}
	if st.Blooms.Delete(k) {
		deleted = true
	}
	if st.HyperLogLogs.Delete(k) {
		deleted = true
	}
	return deleted
}
