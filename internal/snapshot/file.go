package snapshot

import (
	"context"
	"os"
	"sync"
	"time"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
	"github.com/go-co-op/gocron/v2"

	"github.com/ccresp/respd/internal/resp"
	"github.com/ccresp/respd/internal/store"
)

// Manager owns the dump file and the mutex guarding it, mirroring the
// spec's "snapshot file handle is shared behind a mutex; writers always
// seek to 0 before writing" requirement.
type Manager struct {
	Path string

	fileMu sync.Mutex

	CommandsThreshold uint64
	MemoryOnly        bool

	scheduler gocron.Scheduler

	// OnSaved, if set, is invoked after every save attempt (local write
	// only; mirror errors are reported separately by the caller who owns
	// the mirror configuration). err is nil on success.
	OnSaved func(dur time.Duration, err error)
}

func NewManager(path string, commandsThreshold uint64, memoryOnly bool) *Manager {
	return &Manager{
		Path:              path,
		CommandsThreshold: commandsThreshold,
		MemoryOnly:        memoryOnly,
	}
}

// Load reads the dump file at startup. A missing or empty file yields a
// fresh, empty StateStore (this is the expected first-run state, not an
// error). Any other I/O or decode failure is fatal, per the spec's
// "I/O errors on snapshot load at startup: fatal panic" rule.
func (m *Manager) Load() *store.StateStore {
	if m.MemoryOnly {
		return store.New(m.CommandsThreshold, m.MemoryOnly)
	}

	m.fileMu.Lock()
	defer m.fileMu.Unlock()

	f, err := os.Open(m.Path)
	if os.IsNotExist(err) {
		return store.New(m.CommandsThreshold, m.MemoryOnly)
	}
	if err != nil {
		cclog.Abortf("snapshot: cannot open dump file %q: %s", m.Path, err.Error())
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		cclog.Abortf("snapshot: cannot stat dump file %q: %s", m.Path, err.Error())
	}
	if info.Size() == 0 {
		return store.New(m.CommandsThreshold, m.MemoryOnly)
	}

	buf := make([]byte, info.Size())
	if _, err := f.Read(buf); err != nil {
		cclog.Abortf("snapshot: cannot read dump file %q: %s", m.Path, err.Error())
	}

	v, consumed, err := resp.Decode(buf)
	if err != nil || consumed == 0 {
		cclog.Abortf("snapshot: dump file %q is corrupt", m.Path)
	}

	ss, err := Decode(v, m.CommandsThreshold, m.MemoryOnly)
	if err != nil {
		cclog.Abortf("snapshot: dump file %q is corrupt: %s", m.Path, err.Error())
	}
	return ss
}

// Save serializes ss and rewrites the dump file in place: seek to 0,
// write the new image, truncate away any leftover tail from a larger
// previous image, fsync.
func (m *Manager) Save(ss *store.StateStore) error {
	start := time.Now()
	err := m.save(ss)
	if m.OnSaved != nil {
		m.OnSaved(time.Since(start), err)
	}
	if err != nil {
		cclog.Warnf("snapshot: save failed: %s", err.Error())
	}
	return err
}

func (m *Manager) save(ss *store.StateStore) error {
	if m.MemoryOnly {
		return nil
	}

	m.fileMu.Lock()
	defer m.fileMu.Unlock()

	f, err := os.OpenFile(m.Path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	v := Encode(ss)
	buf := resp.Encode(nil, v)

	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	n, err := f.Write(buf)
	if err != nil {
		return err
	}
	if err := f.Truncate(int64(n)); err != nil {
		return err
	}
	return f.Sync()
}

// StartPeriodic runs Save on a fixed interval until ctx is cancelled.
// No-op when MemoryOnly or interval <= 0, matching "periodic Interval
// task spawned at startup when not memory-only".
func (m *Manager) StartPeriodic(ctx context.Context, ss *store.StateStore, interval time.Duration) error {
	if m.MemoryOnly || interval <= 0 {
		return nil
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	m.scheduler = s

	if _, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { m.Save(ss) }),
	); err != nil {
		return err
	}

	s.Start()
	go func() {
		<-ctx.Done()
		_ = s.Shutdown()
	}()
	return nil
}

// MaybeSaveOnThreshold checks the command counter and, if this call
// crossed the threshold, spawns a one-shot save in its own goroutine.
// Call this once per executed command.
func (m *Manager) MaybeSaveOnThreshold(ss *store.StateStore) {
	if ss.RecordCommand() {
		go m.Save(ss)
	}
}
