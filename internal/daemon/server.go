// Package daemon runs the scheduled reminder sweep and a small HTTP
// diagnostics surface for health checks, metrics, and on-demand sweeps.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/thenoetrevino/rumbo/internal/services/reminder"
)

// sweepTimeout bounds one sweep's store and dispatch I/O
const sweepTimeout = 5 * time.Minute

// Server schedules the daily sweep and serves diagnostics
type Server struct {
	listenAddr  string
	sweepHour   int
	sweepMinute int
	sweeper     reminder.Service
	metrics     *Metrics
	now         func() time.Time
}

// NewServer creates a daemon server. The sweep fires once per day at the
// given local wall-clock time.
func NewServer(listenAddr string, sweepHour, sweepMinute int, sweeper reminder.Service) *Server {
	return &Server{
		listenAddr:  listenAddr,
		sweepHour:   sweepHour,
		sweepMinute: sweepMinute,
		sweeper:     sweeper,
		metrics:     NewMetrics(),
		now:         time.Now,
	}
}

// Metrics exposes the daemon's counters
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start runs the scheduler and the HTTP listener until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	router.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)
	router.HandleFunc("/sweep", s.handleSweep).Methods(http.MethodPost)

	httpServer := &http.Server{
		Addr:              s.listenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	httpErr := make(chan error, 1)
	go func() {
		slog.Info("daemon listening", "addr", s.listenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErr <- err
		}
	}()

	go s.scheduleLoop(ctx)

	select {
	case <-ctx.Done():
		slog.Info("daemon context cancelled, shutting down")
	case err := <-httpErr:
		return fmt.Errorf("http listener failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// nextRunAfter returns the next occurrence of the configured wall-clock
// time strictly after now
func nextRunAfter(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// scheduleLoop fires the sweep at the configured time, once per day
func (s *Server) scheduleLoop(ctx context.Context) {
	for {
		next := nextRunAfter(s.now(), s.sweepHour, s.sweepMinute)
		slog.Info("next reminder sweep scheduled", "at", next)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.runSweep(ctx)
		}
	}
}

// runSweep executes one sweep with a bounded timeout and records metrics
func (s *Server) runSweep(ctx context.Context) (*reminder.Report, error) {
	sweepCtx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	report, err := s.sweeper.Sweep(sweepCtx)
	if err != nil {
		slog.Error("reminder sweep failed", "error", err)
		return nil, err
	}

	s.metrics.RecordSweep(report.RemindersSent, report.DispatchFailures, s.now())
	return report, nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.metrics.SnapshotAt(s.now())); err != nil {
		slog.Error("failed to encode metrics", "error", err)
	}
}

// handleSweep triggers an on-demand sweep and reports its outcome
func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	report, err := s.runSweep(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		slog.Error("failed to encode sweep report", "error", err)
	}
}
