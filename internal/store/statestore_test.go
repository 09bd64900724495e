package store

import "testing"

func TestStateStoreDBLazyCreation(t *testing.T) {
	ss := New(10000, false)
	if len(ss.Indices()) != 0 {
		t.Fatal("new StateStore already has materialized databases")
	}
	db0 := ss.DB(0)
	db0Again := ss.DB(0)
	if db0 != db0Again {
		t.Fatal("DB(0) returned two distinct State instances")
	}
	if len(ss.Indices()) != 1 {
		t.Fatalf("Indices() = %v, want exactly [0]", ss.Indices())
	}
}

func TestStateStoreFlushAllKeepsStateEntries(t *testing.T) {
	ss := New(10000, false)
	db0 := ss.DB(0)
	db0.KV.Set("k", "v")
	db1 := ss.DB(1)
	db1.KV.Set("k2", "v2")

	ss.FlushAll()

	if _, ok := db0.KV.Get("k"); ok {
		t.Fatal("FlushAll left a key behind in db0")
	}
	if _, ok := db1.KV.Get("k2"); ok {
		t.Fatal("FlushAll left a key behind in db1")
	}
	if len(ss.Indices()) != 2 {
		t.Fatalf("FlushAll removed State entries: Indices() = %v", ss.Indices())
	}
}

func TestStateStoreRecordCommandTriggersOnceAtThreshold(t *testing.T) {
	ss := New(3, false)
	var triggers int
	for i := 0; i < 9; i++ {
		if ss.RecordCommand() {
			triggers++
		}
	}
	if triggers != 3 {
		t.Fatalf("triggers over 9 commands at threshold 3 = %d, want 3", triggers)
	}
}

func TestStateStoreMemoryOnlyNeverTriggers(t *testing.T) {
	ss := New(1, true)
	for i := 0; i < 10; i++ {
		if ss.RecordCommand() {
			t.Fatal("RecordCommand triggered a save while memory-only")
		}
	}
}
