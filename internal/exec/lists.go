package exec

import (
	"time"

	"github.com/ccresp/respd/internal/ops"
	"github.com/ccresp/respd/internal/store"
)

func execLists(op ops.Op, st *store.State) store.ReturnValue {
	switch op.Kind {
	case ops.KindLPush:
		l := st.GetList(op.Key)
		n := l.PushLeft(op.Members...)
		wakeListWaiters(st, op.Key)
		return store.Int(n)

	case ops.KindRPush:
		l := st.GetList(op.Key)
		n := l.PushRight(op.Members...)
		wakeListWaiters(st, op.Key)
		return store.Int(n)

	case ops.KindLPushX:
		l, ok := st.Lists.Get(op.Key)
		if !ok || !l.Exists() {
			return store.Int(0)
		}
		n := l.PushLeft(op.Members...)
		wakeListWaiters(st, op.Key)
		return store.Int(n)

	case ops.KindRPushX:
		l, ok := st.Lists.Get(op.Key)
		if !ok || !l.Exists() {
			return store.Int(0)
		}
		n := l.PushRight(op.Members...)
		wakeListWaiters(st, op.Key)
		return store.Int(n)

	case ops.KindLLen:
		l, ok := st.Lists.Get(op.Key)
		if !ok {
			return store.Int(0)
		}
		return store.Int(l.Len())

	case ops.KindLPop:
		l, ok := st.Lists.Get(op.Key)
		if !ok {
			return store.Nil()
		}
		v, ok := l.PopLeft()
		if !ok {
			return store.Nil()
		}
		return store.String(v)

	case ops.KindRPop:
		l, ok := st.Lists.Get(op.Key)
		if !ok {
			return store.Nil()
		}
		v, ok := l.PopRight()
		if !ok {
			return store.Nil()
		}
		return store.String(v)

	case ops.KindLIndex:
		l, ok := st.Lists.Get(op.Key)
		if !ok {
			return store.Nil()
		}
		v, ok := l.Index(op.Index1)
		if !ok {
			return store.Nil()
		}
		return store.String(v)

	case ops.KindLSet:
		l, ok := st.Lists.Get(op.Key)
		if !ok {
			return store.Err("no such key")
		}
		if !l.Set(op.Index1, op.Member) {
			return store.Err("index out of range")
		}
		return store.Ok()

	case ops.KindBLPop, ops.KindBRPop:
		return execBlockingPop(op, st)

	default:
		return store.Err("Unknown Operation!")
	}
}

// execBlockingPop implements BLPOP/BRPOP: try every key left to right
// immediately, and if all are empty, register a waker under each key
// and wait for either a producer's WakeAll or the timeout. A wake is
// only a hint to retry, since another blocked waiter on the same key
// may win the race, so a woken waiter re-registers before waiting
// again. TimeoutMS of zero blocks indefinitely, matching the spec's
// blocking-list-primitive suspension point.
func execBlockingPop(op ops.Op, st *store.State) store.ReturnValue {
	pop := func(key string) (string, bool) {
		l, ok := st.Lists.Get(key)
		if !ok {
			return "", false
		}
		if op.Kind == ops.KindBLPop {
			return l.PopLeft()
		}
		return l.PopRight()
	}

	tryPop := func() (store.ReturnValue, bool) {
		for _, key := range op.Keys {
			if v, ok := pop(key); ok {
				return store.Array([]store.ReturnValue{store.String(key), store.String(v)}), true
			}
		}
		return store.ReturnValue{}, false
	}

	if rv, ok := tryPop(); ok {
		return rv
	}

	receipt := st.Receipts.GetReceipt()
	woken := make(chan struct{}, 1)
	waker := func() {
		select {
		case woken <- struct{}{}:
		default:
		}
	}
	register := func() {
		for _, key := range op.Keys {
			st.Receipts.Insert(receipt, waker, store.ListKeyType(key))
		}
	}
	register()

	var timeoutCh <-chan time.Time
	if op.TimeoutMS > 0 {
		timer := time.NewTimer(time.Duration(op.TimeoutMS) * time.Millisecond)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	for {
		select {
		case <-woken:
			if rv, ok := tryPop(); ok {
				return rv
			}
			register()
		case <-timeoutCh:
			st.Receipts.TimedOut(receipt)
			return store.Nil()
		}
	}
}

// wakeListWaiters notifies every receipt blocked on key after a
// mutating push, per the spec's "producers call wake all waiters for
// this key after their mutation" rule.
func wakeListWaiters(st *store.State, key string) {
	st.Receipts.WakeAll(store.ListKeyType(key))
}
