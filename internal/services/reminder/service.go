// Package reminder implements the daily due-date sweep. The sweep is a
// stateless scan: it reads task and project rows, computes each task's
// day-offset from today, and dispatches a notification at exactly two
// offsets. It keeps no record of what it already sent, so running it more
// than once on the same calendar day re-sends the same reminders; the
// scheduler is expected to fire it once per day.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/thenoetrevino/rumbo/internal/models"
	"github.com/thenoetrevino/rumbo/internal/notify"
	"github.com/thenoetrevino/rumbo/internal/store"
)

// Day offsets that trigger a reminder
const (
	UpcomingOffsetDays = 2
	OverdueOffsetDays  = -2
)

// Type classifies a reminder
type Type string

// Reminder types
const (
	TypeUpcoming Type = "upcoming_due"
	TypeOverdue  Type = "overdue"
)

// Outcome is the tri-state result of a sweep
type Outcome string

// Sweep outcomes
const (
	// OutcomeOK means every eligible reminder was dispatched
	OutcomeOK Outcome = "ok"
	// OutcomePartial means some dispatches succeeded and some failed
	OutcomePartial Outcome = "partial"
	// OutcomeFailed means every attempted dispatch failed
	OutcomeFailed Outcome = "failed"
)

// Reminder records one dispatched notification
type Reminder struct {
	Type      Type
	TaskID    string
	Recipient string
	DueDate   string
}

// Report summarizes a sweep run
type Report struct {
	RemindersSent    int
	Reminders        []Reminder
	DispatchFailures int
	Outcome          Outcome
}

// Service runs due-date sweeps
type Service interface {
	// Sweep scans all tasks once and dispatches due-date reminders.
	// Individual dispatch failures are logged and counted, never fatal;
	// only a store read failure aborts the sweep.
	Sweep(ctx context.Context) (*Report, error)
}

// service implements Service
type service struct {
	store      store.Tabular
	dispatcher notify.Dispatcher
	now        func() time.Time
}

// NewService creates a sweeper on the real clock
func NewService(tab store.Tabular, dispatcher notify.Dispatcher) Service {
	return NewServiceWithClock(tab, dispatcher, time.Now)
}

// NewServiceWithClock creates a sweeper with an injected clock, for tests
// and simulated runs
func NewServiceWithClock(tab store.Tabular, dispatcher notify.Dispatcher, now func() time.Time) Service {
	return &service{store: tab, dispatcher: dispatcher, now: now}
}

// diffDays is the whole-day offset between two dates, computed at
// midnight so the sweep's wall-clock time never shifts the result
func diffDays(due, today time.Time) int {
	dueMidnight := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	todayMidnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Floor(dueMidnight.Sub(todayMidnight).Hours() / 24))
}

// Sweep implements Service
func (s *service) Sweep(ctx context.Context) (*Report, error) {
	taskRows, err := s.store.ReadRows(ctx, store.TasksTable)
	if err != nil {
		return nil, fmt.Errorf("failed to read task rows: %w", err)
	}
	projectRows, err := s.store.ReadRows(ctx, store.ProjectsTable)
	if err != nil {
		return nil, fmt.Errorf("failed to read project rows: %w", err)
	}

	projectNames := make(map[string]string, len(projectRows))
	for _, row := range projectRows {
		project, err := store.ProjectFromRow(row)
		if err != nil {
			slog.Warn("skipping undecodable project row in sweep", "error", err)
			continue
		}
		projectNames[project.ID] = project.Name
	}

	today := s.now()
	report := &Report{}

	for i, row := range taskRows {
		task, err := store.TaskFromRow(row)
		if err != nil {
			slog.Warn("skipping undecodable task row in sweep", "position", i, "error", err)
			continue
		}
		if task.DueDate == "" || task.AssignedTo == "" || task.Status.IsCompleted() {
			continue
		}

		due, err := models.ParseDate(task.DueDate)
		if err != nil {
			slog.Warn("skipping task with malformed due date",
				"task_id", task.ID, "due_date", task.DueDate, "error", err)
			continue
		}

		var kind Type
		switch diffDays(due, today) {
		case UpcomingOffsetDays:
			kind = TypeUpcoming
		case OverdueOffsetDays:
			kind = TypeOverdue
		default:
			continue
		}

		subject, body := s.compose(kind, task, projectNames[task.ProjectID])
		if err := s.dispatcher.Send(ctx, task.AssignedTo, subject, body); err != nil {
			report.DispatchFailures++
			slog.Error("reminder dispatch failed",
				"task_id", task.ID, "recipient", task.AssignedTo, "type", kind, "error", err)
			continue
		}

		report.RemindersSent++
		report.Reminders = append(report.Reminders, Reminder{
			Type:      kind,
			TaskID:    task.ID,
			Recipient: task.AssignedTo,
			DueDate:   task.DueDate,
		})
	}

	switch {
	case report.DispatchFailures == 0:
		report.Outcome = OutcomeOK
	case report.RemindersSent > 0:
		report.Outcome = OutcomePartial
	default:
		report.Outcome = OutcomeFailed
	}

	slog.Info("reminder sweep finished",
		"sent", report.RemindersSent,
		"failures", report.DispatchFailures,
		"outcome", report.Outcome,
	)
	return report, nil
}

// compose builds the notification subject and body for a reminder
func (s *service) compose(kind Type, task models.Task, projectName string) (string, string) {
	if projectName == "" {
		projectName = task.ProjectID
	}

	switch kind {
	case TypeOverdue:
		subject := fmt.Sprintf("Overdue task: %s", task.Title)
		body := fmt.Sprintf(
			"Task %q in project %q was due on %s and is not completed.\nCurrent status: %s\n",
			task.Title, projectName, task.DueDate, task.Status)
		return subject, body
	default:
		subject := fmt.Sprintf("Task due soon: %s", task.Title)
		body := fmt.Sprintf(
			"Task %q in project %q is due on %s (in %d days).\nCurrent status: %s\n",
			task.Title, projectName, task.DueDate, UpcomingOffsetDays, task.Status)
		return subject, body
	}
}
