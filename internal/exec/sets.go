package exec

import (
	"github.com/ccresp/respd/internal/ops"
	"github.com/ccresp/respd/internal/store"
)

func execSets(op ops.Op, st *store.State) store.ReturnValue {
	switch op.Kind {
	case ops.KindSAdd:
		s := st.GetSet(op.Key)
		return store.Int(s.Add(op.Members...))

	case ops.KindSRem:
		s, ok := st.Sets.Get(op.Key)
		if !ok {
			return store.Int(0)
		}
		return store.Int(s.Remove(op.Members...))

	case ops.KindSMembers:
		s, ok := st.Sets.Get(op.Key)
		if !ok {
			return store.MultiString(nil)
		}
		return store.MultiString(s.Members())

	case ops.KindSCard:
		s, ok := st.Sets.Get(op.Key)
		if !ok {
			return store.Int(0)
		}
		return store.Int(s.Card())

	case ops.KindSDiff:
		sets, ok := existingSets(st, op.Keys)
		if !ok {
			return store.MultiString(nil)
		}
		return store.MultiString(mapKeys(store.Diff(sets)))

	case ops.KindSUnion:
		sets, ok := existingSets(st, op.Keys)
		if !ok {
			return store.MultiString(nil)
		}
		return store.MultiString(mapKeys(store.Union(sets)))

	case ops.KindSInter:
		sets, ok := existingSets(st, op.Keys)
		if !ok {
			return store.MultiString(nil)
		}
		return store.MultiString(mapKeys(store.Inter(sets)))

	case ops.KindSDiffStore:
		return storeSetOp(st, op.Key2, op.Keys, store.Diff)
	case ops.KindSUnionStore:
		return storeSetOp(st, op.Key2, op.Keys, store.Union)
	case ops.KindSInterStore:
		return storeSetOp(st, op.Key2, op.Keys, store.Inter)

	case ops.KindSPop:
		s, ok := st.Sets.Get(op.Key)
		if !ok {
			if op.HasCount {
				return store.MultiString(nil)
			}
			return store.Nil()
		}
		count := 1
		if op.HasCount {
			count = int(op.Count)
		}
		popped := s.Pop(count)
		if !op.HasCount {
			if len(popped) == 0 {
				return store.Nil()
			}
			return store.String(popped[0])
		}
		return store.MultiString(popped)

	case ops.KindSIsMember:
		s, ok := st.Sets.Get(op.Key)
		if !ok {
			return store.Int(0)
		}
		if s.Contains(op.Member) {
			return store.Int(1)
		}
		return store.Int(0)

	case ops.KindSMove:
		src, ok := st.Sets.Get(op.Key)
		if !ok || !src.Contains(op.Member) {
			return store.Int(0)
		}
		src.Remove(op.Member)
		st.GetSet(op.Key2).Add(op.Member)
		return store.Int(1)

	case ops.KindSRandMember:
		s, ok := st.Sets.Get(op.Key)
		if !ok {
			if op.HasCount {
				return store.MultiString(nil)
			}
			return store.Nil()
		}
		count := 1
		if op.HasCount {
			count = int(op.Count)
		}
		picked := s.Random(count)
		if !op.HasCount {
			if len(picked) == 0 {
				return store.Nil()
			}
			return store.String(picked[0])
		}
		return store.MultiString(picked)

	default:
		return store.Err("Unknown Operation!")
	}
}

// existingSets filters keys down to those backed by an actual set,
// matching the spec's "filter the input keys to those with existing
// sets; if none exist, return empty result" rule.
func existingSets(st *store.State, keys []string) ([]*store.Set, bool) {
	sets := make([]*store.Set, 0, len(keys))
	for _, k := range keys {
		if s, ok := st.Sets.Get(k); ok {
			sets = append(sets, s)
		}
	}
	if len(sets) == 0 {
		return nil, false
	}
	return sets, true
}

func storeSetOp(st *store.State, dest string, keys []string, op func([]*store.Set) map[store.Value]struct{}) store.ReturnValue {
	sets, ok := existingSets(st, keys)
	result := map[store.Value]struct{}{}
	if ok {
		result = op(sets)
	}
	newSet := store.NewSet()
	for v := range result {
		newSet.Add(v)
	}
	st.Sets.Set(dest, newSet)
	return store.Int(int64(len(result)))
}

func mapKeys(m map[store.Value]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
