package store

import (
	"sync"
	"testing"
)

func TestShardedMapGetSetDelete(t *testing.T) {
	sm := NewShardedMap[string]()
	if _, ok := sm.Get("k"); ok {
		t.Fatal("Get on empty map returned ok=true")
	}
	sm.Set("k", "v")
	v, ok := sm.Get("k")
	if !ok || v != "v" {
		t.Fatalf("Get = %q, %v, want v, true", v, ok)
	}
	if !sm.Delete("k") {
		t.Fatal("Delete = false, want true")
	}
	if sm.Delete("k") {
		t.Fatal("second Delete = true, want false")
	}
}

func TestShardedMapGetOrCreate(t *testing.T) {
	sm := NewShardedMap[*Set]()
	a := sm.GetOrCreate("k", func() *Set { return NewSet() })
	b := sm.GetOrCreate("k", func() *Set { return NewSet() })
	if a != b {
		t.Fatal("GetOrCreate returned two distinct containers for the same key")
	}
}

func TestShardedMapClearPreservesIdentity(t *testing.T) {
	sm := NewShardedMap[string]()
	sm.Set("a", "1")
	sm.Set("b", "2")
	sm.Clear()
	if sm.Len() != 0 {
		t.Fatalf("Len after Clear = %d, want 0", sm.Len())
	}
	sm.Set("c", "3")
	if v, ok := sm.Get("c"); !ok || v != "3" {
		t.Fatal("map unusable after Clear")
	}
}

func TestShardedMapConcurrentDifferentKeys(t *testing.T) {
	sm := NewShardedMap[int]()
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := Key(rune('a' + i%26))
			sm.WithLocked(key, func(v int, exists bool) (int, bool) {
				return v + 1, true
			})
		}(i)
	}
	wg.Wait()
	total := 0
	sm.Each(func(_ Key, v int) { total += v })
	if total != 200 {
		t.Fatalf("total = %d, want 200", total)
	}
}

func TestShardForDistributesKeys(t *testing.T) {
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		seen[shardFor(Key(rune(i)))] = true
	}
	if len(seen) < 2 {
		t.Fatalf("shardFor mapped %d distinct keys into %d shard(s), want spread across shards", 1000, len(seen))
	}
}
