package admin

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/version"
)

// Metrics implements server.Metrics and exposes every counter through
// a dedicated prometheus.Registry, scraped by the /metrics route.
type Metrics struct {
	registry *prometheus.Registry

	connectionsActive prometheus.Gauge
	connectionsTotal  prometheus.Counter
	commandsTotal     *prometheus.CounterVec
	snapshotDuration  prometheus.Histogram
	snapshotFailures  prometheus.Counter
	commandsSinceSave prometheus.GaugeFunc

	active atomic.Int64
}

// NewMetrics registers every collector against a fresh registry.
// commandsSinceSave reads live from commandsSinceSaveFn on every scrape
// rather than being pushed, since the StateStore already tracks it.
func NewMetrics(commandsSinceSaveFn func() float64) *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.connectionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "respd",
		Name:      "connections_active",
		Help:      "Number of currently open client connections.",
	})
	m.connectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "respd",
		Name:      "connections_total",
		Help:      "Total number of client connections accepted since startup.",
	})
	m.commandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "respd",
		Name:      "commands_total",
		Help:      "Commands processed, partitioned by command name and outcome.",
	}, []string{"command", "outcome"})
	m.snapshotDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "respd",
		Name:      "snapshot_duration_seconds",
		Help:      "Time taken to serialize and write a snapshot.",
		Buckets:   prometheus.DefBuckets,
	})
	m.snapshotFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "respd",
		Name:      "snapshot_failures_total",
		Help:      "Number of snapshot save attempts that failed.",
	})
	m.commandsSinceSave = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "respd",
		Name:      "commands_since_save",
		Help:      "Commands executed since the counter was last reset on reaching the save threshold; periodic and shutdown saves do not reset it.",
	}, commandsSinceSaveFn)

	m.registry.MustRegister(
		m.connectionsActive,
		m.connectionsTotal,
		m.commandsTotal,
		m.snapshotDuration,
		m.snapshotFailures,
		m.commandsSinceSave,
		version.NewCollector("respd"),
	)

	return m
}

func (m *Metrics) ConnectionOpened() {
	m.active.Add(1)
	m.connectionsActive.Set(float64(m.active.Load()))
	m.connectionsTotal.Inc()
}

func (m *Metrics) ConnectionClosed() {
	m.active.Add(-1)
	m.connectionsActive.Set(float64(m.active.Load()))
}

func (m *Metrics) CommandProcessed(name string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.commandsTotal.WithLabelValues(name, outcome).Inc()
}

// ObserveSnapshot records one save attempt's duration and outcome,
// wired to snapshot.Manager.OnSaved.
func (m *Metrics) ObserveSnapshot(seconds float64, err error) {
	m.snapshotDuration.Observe(seconds)
	if err != nil {
		m.snapshotFailures.Inc()
	}
}
