package exec

import (
	"github.com/ccresp/respd/internal/ops"
	"github.com/ccresp/respd/internal/store"
)

func execHashes(op ops.Op, st *store.State) store.ReturnValue {
	switch op.Kind {
	case ops.KindHGet:
		h, ok := st.Hashes.Get(op.Key)
		if !ok {
			return store.Nil()
		}
		v, ok := h.Get(op.Field)
		if !ok {
			return store.Nil()
		}
		return store.String(v)

	case ops.KindHSet:
		h := st.GetHash(op.Key)
		if h.Set(op.Field, op.Member) {
			return store.Int(1)
		}
		return store.Int(0)

	case ops.KindHExists:
		h, ok := st.Hashes.Get(op.Key)
		if !ok || !h.Exists(op.Field) {
			return store.Int(0)
		}
		return store.Int(1)

	case ops.KindHGetAll:
		h, ok := st.Hashes.Get(op.Key)
		if !ok {
			return store.MultiString(nil)
		}
		all := h.All()
		flat := make([]string, 0, len(all)*2)
		for k, v := range all {
			flat = append(flat, k, v)
		}
		return store.MultiString(flat)

	case ops.KindHMGet:
		h, ok := st.Hashes.Get(op.Key)
		out := make([]store.ReturnValue, len(op.Fields))
		for i, f := range op.Fields {
			if ok {
				if v, exists := h.Get(f); exists {
					out[i] = store.String(v)
					continue
				}
			}
			out[i] = store.Nil()
		}
		return store.Array(out)

	case ops.KindHKeys:
		h, ok := st.Hashes.Get(op.Key)
		if !ok {
			return store.MultiString(nil)
		}
		return store.MultiString(h.Keys())

	case ops.KindHMSet:
		h := st.GetHash(op.Key)
		for _, kv := range op.Pairs {
			h.Set(kv.Key, kv.Value)
		}
		return store.Ok()

	case ops.KindHLen:
		h, ok := st.Hashes.Get(op.Key)
		if !ok {
			return store.Int(0)
		}
		return store.Int(h.Len())

	case ops.KindHDel:
		h, ok := st.Hashes.Get(op.Key)
		if !ok {
			return store.Int(0)
		}
		return store.Int(h.Delete(op.Fields...))

	default:
		return store.Err("Unknown Operation!")
	}
}
