package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danmuck/clicktrans/internal/protocol"
)

// Outcomes for edits that did not fail. Failed edits use their
// protocol.FailureReason as the label.
const (
	OutcomeUpdated = "updated"
	OutcomeSkipped = "skipped"
)

// SessionMetrics holds counters for one host process. The host lives for
// a single request, so values describe the last session only. A nil
// *SessionMetrics records nothing.
type SessionMetrics struct {
	registry *prometheus.Registry

	edits        *prometheus.CounterVec
	backups      prometheus.Counter
	filesWritten prometheus.Counter
	duration     prometheus.Gauge
	lastSession  prometheus.Gauge
}

func NewSessionMetrics() *SessionMetrics {
	m := &SessionMetrics{
		registry: prometheus.NewRegistry(),
		edits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "clicktrans",
				Subsystem: "session",
				Name:      "edits_total",
				Help:      "Edits processed in the last session by outcome.",
			},
			[]string{"outcome"},
		),
		backups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clicktrans",
			Subsystem: "session",
			Name:      "backups_total",
			Help:      "Backup files created in the last session.",
		}),
		filesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clicktrans",
			Subsystem: "session",
			Name:      "file_writes_total",
			Help:      "Resource file writes in the last session.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "clicktrans",
			Subsystem: "session",
			Name:      "duration_seconds",
			Help:      "Wall time of the last session.",
		}),
		lastSession: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "clicktrans",
			Subsystem: "session",
			Name:      "last_timestamp_seconds",
			Help:      "Unix time the last session finished.",
		}),
	}
	m.registry.MustRegister(m.edits, m.backups, m.filesWritten, m.duration, m.lastSession)
	return m
}

func (m *SessionMetrics) RecordEdit(outcome string) {
	if m == nil {
		return
	}
	m.edits.WithLabelValues(outcome).Inc()
}

func (m *SessionMetrics) RecordFailure(reason protocol.FailureReason) {
	m.RecordEdit(string(reason))
}

func (m *SessionMetrics) RecordBackup() {
	if m == nil {
		return
	}
	m.backups.Inc()
}

func (m *SessionMetrics) RecordWrite() {
	if m == nil {
		return
	}
	m.filesWritten.Inc()
}

func (m *SessionMetrics) Finish(start time.Time, end time.Time) {
	if m == nil {
		return
	}
	m.duration.Set(end.Sub(start).Seconds())
	m.lastSession.Set(float64(end.Unix()))
}

func (m *SessionMetrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

// WriteTextfile writes the metrics in Prometheus text format for a
// node_exporter textfile collector. The file is replaced atomically.
func (m *SessionMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Gatherer())
}
