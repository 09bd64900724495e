package exec

import (
	"github.com/ccresp/respd/internal/ops"
	"github.com/ccresp/respd/internal/store"
)

func execBloom(op ops.Op, st *store.State) store.ReturnValue {
	switch op.Kind {
	case ops.KindBInsert:
		b := st.GetBloom(op.Key)
		b.Insert(op.Member)
		return store.Ok()

	case ops.KindBContains:
		b, ok := st.Blooms.Get(op.Key)
		if !ok {
			return store.Int(0)
		}
		if b.Contains(op.Member) {
			return store.Int(1)
		}
		return store.Int(0)

	default:
		return store.Err("Unknown Operation!")
	}
}

func execHyperLogLog(op ops.Op, st *store.State) store.ReturnValue {
	switch op.Kind {
	case ops.KindPFAdd:
		h := st.GetHyperLogLog(op.Key)
		var changed bool
		for _, v := range op.Members {
			if h.Add(v) {
				changed = true
			}
		}
		if changed {
			return store.Int(1)
		}
		return store.Int(0)

	default:
		return store.Err("Unknown Operation!")
	}
}
