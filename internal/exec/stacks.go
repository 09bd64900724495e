package exec

import (
	"github.com/ccresp/respd/internal/ops"
	"github.com/ccresp/respd/internal/store"
)

func execStacks(op ops.Op, st *store.State) store.ReturnValue {
	switch op.Kind {
	case ops.KindSTPush:
		s := st.GetStack(op.Key)
		return store.Int(int64(s.Push(op.Member)))

	case ops.KindSTPop:
		s, ok := st.Stacks.Get(op.Key)
		if !ok {
			return store.Nil()
		}
		v, ok := s.Pop()
		if !ok {
			return store.Nil()
		}
		return store.String(v)

	case ops.KindSTPeek:
		s, ok := st.Stacks.Get(op.Key)
		if !ok {
			return store.Nil()
		}
		v, ok := s.Peek()
		if !ok {
			return store.Nil()
		}
		return store.String(v)

	case ops.KindSTLen:
		s, ok := st.Stacks.Get(op.Key)
		if !ok {
			return store.Int(0)
		}
		return store.Int(int64(s.Len()))

	default:
		return store.Err("Unknown Operation!")
	}
}
