package exec

import (
	"github.com/ccresp/respd/internal/ops"
	"github.com/ccresp/respd/internal/store"
)

func execZSets(op ops.Op, st *store.State) store.ReturnValue {
	switch op.Kind {
	case ops.KindZAdd:
		z := st.GetZSet(op.Key)
		var added int64
		for _, sm := range op.ScoreMembers {
			added += z.Add(sm.Score, sm.Member)
		}
		return store.Int(added)

	case ops.KindZRem:
		z, ok := st.ZSets.Get(op.Key)
		if !ok {
			return store.Int(0)
		}
		var removed int64
		for _, m := range op.Members {
			if z.Remove(m) {
				removed++
			}
		}
		return store.Int(removed)

	case ops.KindZRange:
		z, ok := st.ZSets.Get(op.Key)
		if !ok {
			return store.MultiString(nil)
		}
		return store.MultiString(z.Range(op.Index1, op.Index2))

	default:
		return store.Err("Unknown Operation!")
	}
}
