package daemon

import (
	"sync/atomic"
	"time"
)

// Metrics tracks daemon statistics using atomic operations for thread-safety
type Metrics struct {
	SweepsRun        atomic.Int64
	RemindersSent    atomic.Int64
	DispatchFailures atomic.Int64
	LastSweepUnix    atomic.Int64
	StartTime        time.Time
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{StartTime: time.Now()}
}

// RecordSweep folds one sweep run into the counters
func (m *Metrics) RecordSweep(sent, failures int, at time.Time) {
	m.SweepsRun.Add(1)
	m.RemindersSent.Add(int64(sent))
	m.DispatchFailures.Add(int64(failures))
	m.LastSweepUnix.Store(at.Unix())
}

// Snapshot is a point-in-time copy of the counters, JSON-friendly
type Snapshot struct {
	SweepsRun        int64  `json:"sweeps_run"`
	RemindersSent    int64  `json:"reminders_sent"`
	DispatchFailures int64  `json:"dispatch_failures"`
	LastSweep        string `json:"last_sweep,omitempty"`
	UptimeSeconds    int64  `json:"uptime_seconds"`
}

// SnapshotAt captures the counters relative to now
func (m *Metrics) SnapshotAt(now time.Time) Snapshot {
	snap := Snapshot{
		SweepsRun:        m.SweepsRun.Load(),
		RemindersSent:    m.RemindersSent.Load(),
		DispatchFailures: m.DispatchFailures.Load(),
		UptimeSeconds:    int64(now.Sub(m.StartTime).Seconds()),
	}
	if unix := m.LastSweepUnix.Load(); unix > 0 {
		snap.LastSweep = time.Unix(unix, 0).UTC().Format(time.RFC3339)
	}
	return snap
}
