package daemon

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsRecordSweep(t *testing.T) {
	metrics := NewMetrics()
	at := time.Date(2026, 6, 10, 8, 0, 0, 0, time.UTC)

	metrics.RecordSweep(4, 1, at)
	metrics.RecordSweep(2, 0, at.Add(24*time.Hour))

	snap := metrics.SnapshotAt(at.Add(25 * time.Hour))
	if snap.SweepsRun != 2 {
		t.Errorf("sweeps = %d, want 2", snap.SweepsRun)
	}
	if snap.RemindersSent != 6 {
		t.Errorf("sent = %d, want 6", snap.RemindersSent)
	}
	if snap.DispatchFailures != 1 {
		t.Errorf("failures = %d, want 1", snap.DispatchFailures)
	}
	if snap.LastSweep != "2026-06-11T08:00:00Z" {
		t.Errorf("last sweep = %q", snap.LastSweep)
	}
}

func TestMetricsSnapshotBeforeAnySweep(t *testing.T) {
	snap := NewMetrics().SnapshotAt(time.Now())
	if snap.LastSweep != "" {
		t.Errorf("last sweep should be empty, got %q", snap.LastSweep)
	}
}

func TestMetricsConcurrentRecording(t *testing.T) {
	metrics := NewMetrics()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			metrics.RecordSweep(1, 0, time.Now())
		}()
	}
	wg.Wait()

	if got := metrics.SweepsRun.Load(); got != 50 {
		t.Errorf("sweeps = %d, want 50", got)
	}
}
