package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ccresp/respd/internal/store"
)

func TestManagerLoadMissingFileYieldsEmptyStore(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing.dump"), 1000, false)
	ss := m.Load()
	if len(ss.Indices()) != 0 {
		t.Fatalf("fresh store has %d databases, want 0", len(ss.Indices()))
	}
}

func TestManagerSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "respd.dump")
	m := NewManager(path, 1000, false)

	ss := store.New(1000, false)
	ss.DB(0).KV.Set("key", "value")

	if err := m.Save(ss); err != nil {
		t.Fatalf("Save: %v", err)
	}

	m2 := NewManager(path, 1000, false)
	restored := m2.Load()
	v, ok := restored.DB(0).KV.Get("key")
	if !ok || v != "value" {
		t.Fatalf("reloaded key = (%q, %v), want (value, true)", v, ok)
	}
}

func TestManagerMemoryOnlyNeverTouchesDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "should-not-exist.dump")
	m := NewManager(path, 1000, true)

	ss := store.New(1000, true)
	ss.DB(0).KV.Set("key", "value")
	if err := m.Save(ss); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("memory-only Save created a dump file at %q", path)
	}
}

func TestManagerOnSavedCallbackFiresAfterSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "respd.dump")
	m := NewManager(path, 1000, false)

	var gotDur time.Duration
	var gotErr error
	called := 0
	m.OnSaved = func(dur time.Duration, err error) {
		called++
		gotDur = dur
		gotErr = err
	}

	ss := store.New(1000, false)
	if err := m.Save(ss); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if called != 1 {
		t.Fatalf("OnSaved called %d times, want 1", called)
	}
	if gotErr != nil {
		t.Fatalf("OnSaved err = %v, want nil", gotErr)
	}
	if gotDur < 0 {
		t.Fatalf("OnSaved dur = %v, want >= 0", gotDur)
	}
}
