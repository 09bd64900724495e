package mirror

import (
	"encoding/json"
	"fmt"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
	"github.com/nats-io/nats.go"
)

// DefaultSnapshotSubject is used when no subject is configured.
const DefaultSnapshotSubject = "respd.snapshot.completed"

// NATSConfig configures the optional post-snapshot event publish. An
// empty URL means NATS mirroring is disabled.
type NATSConfig struct {
	URL     string
	Subject string
}

// NATSMirror publishes a snapshot-completed event after every
// successful snapshot.
type NATSMirror struct {
	conn    *nats.Conn
	subject string
}

// NewNATSMirror connects to cfg.URL, or returns (nil, nil) if cfg.URL
// is empty, the off-by-default state.
func NewNATSMirror(cfg NATSConfig) (*NATSMirror, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	subject := cfg.Subject
	if subject == "" {
		subject = DefaultSnapshotSubject
	}

	opts := []nats.Option{
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				cclog.Warnf("respd: NATS disconnected: %s", err.Error())
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			cclog.Infof("respd: NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			cclog.Errorf("respd: NATS error: %s", err.Error())
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("NATS mirror: connect: %w", err)
	}
	cclog.Infof("respd: NATS connected to %s", cfg.URL)

	return &NATSMirror{conn: nc, subject: subject}, nil
}

// snapshotCompletedEvent is the JSON payload published after each
// successful save.
type snapshotCompletedEvent struct {
	DBCount            int   `json:"db_count"`
	CommandsSinceReset int64 `json:"commands_since_reset"`
	DurationMS         int64 `json:"duration_ms"`
}

// PublishSnapshotCompleted publishes a snapshot-completed event.
// Callers are expected to log, not propagate, failures.
func (m *NATSMirror) PublishSnapshotCompleted(dbCount int, commandsSinceReset int64, durationMS int64) error {
	payload, err := json.Marshal(snapshotCompletedEvent{
		DBCount:            dbCount,
		CommandsSinceReset: commandsSinceReset,
		DurationMS:         durationMS,
	})
	if err != nil {
		return fmt.Errorf("NATS mirror: marshal event: %w", err)
	}

	if err := m.conn.Publish(m.subject, payload); err != nil {
		return fmt.Errorf("NATS mirror: publish to %q: %w", m.subject, err)
	}
	return nil
}

// PublishSnapshotCompletedAsync runs the publish in its own goroutine
// and logs any failure.
func (m *NATSMirror) PublishSnapshotCompletedAsync(dbCount int, commandsSinceReset int64, durationMS int64) {
	if m == nil {
		return
	}
	go func() {
		if err := m.PublishSnapshotCompleted(dbCount, commandsSinceReset, durationMS); err != nil {
			cclog.Warnf("respd: %s", err.Error())
		}
	}()
}
