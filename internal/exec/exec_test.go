package exec

import (
	"testing"
	"time"

	"github.com/ccresp/respd/internal/ops"
	"github.com/ccresp/respd/internal/resp"
	"github.com/ccresp/respd/internal/store"
)

func run(t *testing.T, st *store.State, ss *store.StateStore, parts ...string) store.ReturnValue {
	t.Helper()
	vals := make([]resp.Value, len(parts))
	for i, p := range parts {
		vals[i] = resp.BulkStringValue([]byte(p))
	}
	op, err := ops.Translate(resp.ArrayValue(vals))
	if err != nil {
		t.Fatalf("translate(%v) failed: %v", parts, err)
	}
	return Execute(op, st, ss)
}

func newTestState() (*store.StateStore, *store.State) {
	ss := store.New(10000, false)
	return ss, ss.DB(0)
}

func TestSetThenGet(t *testing.T) {
	ss, st := newTestState()
	run(t, st, ss, "SET", "foo", "bar")
	got := run(t, st, ss, "GET", "foo")
	if got.Kind() != store.RVString || got.Str() != "bar" {
		t.Fatalf("GET = %+v, want bar", got)
	}
}

func TestSAddIdempotenceAndCardinality(t *testing.T) {
	ss, st := newTestState()
	first := run(t, st, ss, "SADD", "s", "v")
	second := run(t, st, ss, "SADD", "s", "v")
	if first.IntVal() != 1 || second.IntVal() != 0 {
		t.Fatalf("SADD returns = %d, %d, want 1, 0", first.IntVal(), second.IntVal())
	}
	card := run(t, st, ss, "SCARD", "s")
	if card.IntVal() != 1 {
		t.Fatalf("SCARD = %d, want 1", card.IntVal())
	}
}

func TestHSetIdempotentInHGet(t *testing.T) {
	ss, st := newTestState()
	run(t, st, ss, "HSET", "h", "f", "1")
	run(t, st, ss, "HSET", "h", "f", "2")
	got := run(t, st, ss, "HGET", "h", "f")
	if got.Str() != "2" {
		t.Fatalf("HGET = %q, want 2", got.Str())
	}
}

func TestZAddDoesNotUpdateScoreOnConflict(t *testing.T) {
	ss, st := newTestState()
	first := run(t, st, ss, "ZADD", "z", "1", "m")
	second := run(t, st, ss, "ZADD", "z", "5", "m")
	if first.IntVal() != 1 || second.IntVal() != 0 {
		t.Fatalf("ZADD returns = %d, %d, want 1, 0", first.IntVal(), second.IntVal())
	}
}

func TestZRangeEndToEnd(t *testing.T) {
	ss, st := newTestState()
	add := run(t, st, ss, "ZADD", "z", "1", "a")
	if add.IntVal() != 1 {
		t.Fatalf("ZADD = %d, want 1", add.IntVal())
	}
	got := run(t, st, ss, "ZRANGE", "z", "0", "-1")
	if len(got.Multi()) != 1 || got.Multi()[0] != "a" {
		t.Fatalf("ZRANGE = %v, want [a]", got.Multi())
	}
}

func TestGetMissingKeyReturnsNil(t *testing.T) {
	ss, st := newTestState()
	got := run(t, st, ss, "GET", "missing")
	if got.Kind() != store.RVNil {
		t.Fatalf("GET missing = %+v, want Nil", got)
	}
}

func TestPing(t *testing.T) {
	ss, st := newTestState()
	got := run(t, st, ss, "PING")
	if got.Kind() != store.RVPass || !got.Encode().Equal(resp.SimpleStringValue([]byte("PONG"))) {
		t.Fatalf("PING = %+v, want SimpleString PONG", got)
	}
}

func TestFlushDBOnlyClearsCurrentState(t *testing.T) {
	ss, st0 := newTestState()
	st1 := ss.DB(1)
	st1.KV.Set("k", "v")
	run(t, st0, ss, "SET", "a", "1")

	run(t, st0, ss, "FLUSHDB")

	if _, ok := st0.KV.Get("a"); ok {
		t.Fatal("FLUSHDB left a key in the current database")
	}
	if _, ok := st1.KV.Get("k"); !ok {
		t.Fatal("FLUSHDB touched a different database's state")
	}
}

func TestFlushAllClearsEveryDatabase(t *testing.T) {
	ss, st0 := newTestState()
	st1 := ss.DB(1)
	st0.KV.Set("a", "1")
	st1.KV.Set("b", "2")

	run(t, st0, ss, "FLUSHALL")

	if _, ok := st0.KV.Get("a"); ok {
		t.Fatal("FLUSHALL left a key in db0")
	}
	if _, ok := st1.KV.Get("b"); ok {
		t.Fatal("FLUSHALL left a key in db1")
	}
}

func TestSetAlgebraStoreVariants(t *testing.T) {
	ss, st := newTestState()
	run(t, st, ss, "SADD", "s1", "a", "b", "c")
	run(t, st, ss, "SADD", "s2", "b", "c", "d")

	diff := run(t, st, ss, "SDIFF", "s1", "s2")
	if len(diff.Multi()) != 1 || diff.Multi()[0] != "a" {
		t.Fatalf("SDIFF = %v, want [a]", diff.Multi())
	}

	stored := run(t, st, ss, "SINTERSTORE", "dest", "s1", "s2")
	if stored.IntVal() != 2 {
		t.Fatalf("SINTERSTORE = %d, want 2", stored.IntVal())
	}
	members := run(t, st, ss, "SMEMBERS", "dest")
	if len(members.Multi()) != 2 {
		t.Fatalf("SMEMBERS dest = %v, want 2 members", members.Multi())
	}
}

func TestListWakesReceiptMapWaiters(t *testing.T) {
	ss, st := newTestState()
	woken := false
	receipt := st.Receipts.GetReceipt()
	st.Receipts.Insert(receipt, func() { woken = true }, store.ListKeyType("mylist"))

	run(t, st, ss, "LPUSH", "mylist", "x")

	if !woken {
		t.Fatal("LPUSH did not wake a registered waiter on the same key")
	}
}

func TestBLPopReturnsImmediatelyWhenListNonEmpty(t *testing.T) {
	ss, st := newTestState()
	run(t, st, ss, "RPUSH", "q", "first")

	got := run(t, st, ss, "BLPOP", "q", "0")
	if got.Kind() != store.RVArray || len(got.ArrayVals()) != 2 {
		t.Fatalf("BLPOP = %+v, want a 2-element array", got)
	}
	if got.ArrayVals()[0].Str() != "q" || got.ArrayVals()[1].Str() != "first" {
		t.Fatalf("BLPOP = %+v, want [q first]", got)
	}
}

func TestBLPopWakesOnLaterPush(t *testing.T) {
	ss, st := newTestState()

	resultCh := make(chan store.ReturnValue, 1)
	go func() {
		resultCh <- run(t, st, ss, "BLPOP", "q", "0")
	}()

	// Give the blocking call time to register its waiter before pushing.
	time.Sleep(20 * time.Millisecond)
	run(t, st, ss, "RPUSH", "q", "late")

	select {
	case got := <-resultCh:
		if got.Kind() != store.RVArray || got.ArrayVals()[1].Str() != "late" {
			t.Fatalf("BLPOP = %+v, want [q late]", got)
		}
	case <-time.After(time.Second):
		t.Fatal("BLPOP did not wake up after RPUSH")
	}
}

func TestBLPopTimesOutOnEmptyList(t *testing.T) {
	ss, st := newTestState()

	start := time.Now()
	got := run(t, st, ss, "BLPOP", "q", "0.05")
	if time.Since(start) < 50*time.Millisecond {
		t.Fatal("BLPOP returned before its timeout elapsed")
	}
	if got.Kind() != store.RVNil {
		t.Fatalf("BLPOP on timeout = %+v, want Nil", got)
	}
}

func TestLSetNegativeIndex(t *testing.T) {
	ss, st := newTestState()
	run(t, st, ss, "RPUSH", "l", "a", "b", "c")
	result := run(t, st, ss, "LSET", "l", "-1", "z")
	if result.Kind() != store.RVOk {
		t.Fatalf("LSET = %+v, want Ok", result)
	}
	got := run(t, st, ss, "LINDEX", "l", "2")
	if got.Str() != "z" {
		t.Fatalf("LINDEX(2) = %q, want z", got.Str())
	}
}

func TestBContainsOnAbsentKeyReturnsZero(t *testing.T) {
	ss, st := newTestState()
	got := run(t, st, ss, "BCONTAINS", "nosuchbloom", "x")
	if got.IntVal() != 0 {
		t.Fatalf("BCONTAINS on absent key = %d, want 0", got.IntVal())
	}
}

func TestPFAddReturnsOneIffCardinalityChanged(t *testing.T) {
	ss, st := newTestState()
	results := make([]int64, 0, 50)
	for i := 0; i < 50; i++ {
		got := run(t, st, ss, "PFADD", "hll", string(rune('a'+i%26))+string(rune('0'+i/26)))
		results = append(results, got.IntVal())
	}
	var anyChanged bool
	for _, r := range results {
		if r == 1 {
			anyChanged = true
		}
	}
	if !anyChanged {
		t.Fatal("PFADD never reported a cardinality change across 50 distinct values")
	}
	again := run(t, st, ss, "PFADD", "hll", "a0")
	if again.IntVal() != 0 {
		t.Fatalf("PFADD of an already-added value = %d, want 0", again.IntVal())
	}
}

func TestHGetAllFlattensFieldsAndValues(t *testing.T) {
	ss, st := newTestState()
	run(t, st, ss, "HSET", "h", "f1", "v1")
	run(t, st, ss, "HSET", "h", "f2", "v2")
	got := run(t, st, ss, "HGETALL", "h")
	if len(got.Multi()) != 4 {
		t.Fatalf("HGETALL = %v, want 4 flattened elements", got.Multi())
	}
}
