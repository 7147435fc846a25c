package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/rumbo/internal/models"
	"github.com/thenoetrevino/rumbo/internal/store"
)

// recordingDispatcher captures sends and can fail selected recipients
type recordingDispatcher struct {
	mu       sync.Mutex
	sent     []string // "recipient|subject"
	failFor  map[string]error
	lastBody string
}

func (d *recordingDispatcher) Send(ctx context.Context, recipient, subject, body string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.failFor[recipient]; err != nil {
		return err
	}
	d.sent = append(d.sent, recipient+"|"+subject)
	d.lastBody = body
	return nil
}

// fixedClock pins the sweep to 2026-06-10, mid-morning
func fixedClock() time.Time {
	return time.Date(2026, 6, 10, 9, 30, 0, 0, time.UTC)
}

func sweepStore(t *testing.T, tasks []models.Task) *store.Memory {
	t.Helper()
	mem := store.NewMemory()
	mem.Seed(store.ProjectsTable, [][]string{
		store.RowFromProject(models.Project{ID: "p-1", Name: "Launch"}),
	})
	rows := make([][]string, len(tasks))
	for i, task := range tasks {
		rows[i] = store.RowFromTask(task)
	}
	mem.Seed(store.TasksTable, rows)
	return mem
}

func dueTask(id, due, assignee string, status models.Status) models.Task {
	return models.Task{ID: id, ProjectID: "p-1", Title: "Task " + id, DueDate: due, AssignedTo: assignee, Status: status}
}

func TestSweepUpcomingDue(t *testing.T) {
	// due in exactly 2 days relative to the pinned clock
	mem := sweepStore(t, []models.Task{
		dueTask("t-1", "2026-06-12", "a@x.com", models.StatusInProgress),
	})
	dispatcher := &recordingDispatcher{}
	svc := NewServiceWithClock(mem, dispatcher, fixedClock)

	report, err := svc.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.RemindersSent)
	assert.Equal(t, OutcomeOK, report.Outcome)
	require.Len(t, report.Reminders, 1)
	assert.Equal(t, TypeUpcoming, report.Reminders[0].Type)
	assert.Equal(t, "t-1", report.Reminders[0].TaskID)
	assert.Equal(t, "a@x.com", report.Reminders[0].Recipient)
	assert.Equal(t, "2026-06-12", report.Reminders[0].DueDate)

	require.Len(t, dispatcher.sent, 1)
	assert.Contains(t, dispatcher.lastBody, "Launch")
}

func TestSweepOverdue(t *testing.T) {
	// due exactly 2 days ago
	mem := sweepStore(t, []models.Task{
		dueTask("t-1", "2026-06-08", "a@x.com", models.StatusNotStarted),
	})
	dispatcher := &recordingDispatcher{}
	svc := NewServiceWithClock(mem, dispatcher, fixedClock)

	report, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Reminders, 1)
	assert.Equal(t, TypeOverdue, report.Reminders[0].Type)
}

func TestSweepIgnoresOtherOffsets(t *testing.T) {
	mem := sweepStore(t, []models.Task{
		dueTask("t-1", "2026-06-10", "a@x.com", models.StatusInProgress), // today
		dueTask("t-2", "2026-06-11", "a@x.com", models.StatusInProgress), // tomorrow
		dueTask("t-3", "2026-06-13", "a@x.com", models.StatusInProgress), // in 3 days
		dueTask("t-4", "2026-06-09", "a@x.com", models.StatusInProgress), // yesterday
		dueTask("t-5", "2026-06-01", "a@x.com", models.StatusInProgress), // long overdue
	})
	dispatcher := &recordingDispatcher{}
	svc := NewServiceWithClock(mem, dispatcher, fixedClock)

	report, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.RemindersSent)
	assert.Empty(t, dispatcher.sent)
}

func TestSweepSkipsIneligibleTasks(t *testing.T) {
	mem := sweepStore(t, []models.Task{
		dueTask("t-1", "2026-06-12", "", models.StatusInProgress),         // no assignee
		dueTask("t-2", "", "a@x.com", models.StatusInProgress),            // no due date
		dueTask("t-3", "2026-06-12", "a@x.com", models.StatusCompleted),   // already done
		dueTask("t-4", "2026-06-12", "a@x.com", models.Status("COMPLETED")), // case-insensitive done
	})
	dispatcher := &recordingDispatcher{}
	svc := NewServiceWithClock(mem, dispatcher, fixedClock)

	report, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.RemindersSent)
}

func TestSweepMalformedDueDateIsSkipped(t *testing.T) {
	mem := sweepStore(t, []models.Task{
		dueTask("t-1", "06/12/2026", "a@x.com", models.StatusInProgress),
		dueTask("t-2", "2026-06-12", "b@x.com", models.StatusInProgress),
	})
	dispatcher := &recordingDispatcher{}
	svc := NewServiceWithClock(mem, dispatcher, fixedClock)

	report, err := svc.Sweep(context.Background())
	require.NoError(t, err)

	// the malformed row is skipped, the rest of the sweep continues
	assert.Equal(t, 1, report.RemindersSent)
	assert.Equal(t, "t-2", report.Reminders[0].TaskID)
}

func TestSweepDispatchFailureDoesNotAbort(t *testing.T) {
	mem := sweepStore(t, []models.Task{
		dueTask("t-1", "2026-06-12", "broken@x.com", models.StatusInProgress),
		dueTask("t-2", "2026-06-12", "ok@x.com", models.StatusInProgress),
	})
	dispatcher := &recordingDispatcher{
		failFor: map[string]error{"broken@x.com": errors.New("relay down")},
	}
	svc := NewServiceWithClock(mem, dispatcher, fixedClock)

	report, err := svc.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.RemindersSent)
	assert.Equal(t, 1, report.DispatchFailures)
	assert.Equal(t, OutcomePartial, report.Outcome)
}

func TestSweepAllDispatchesFail(t *testing.T) {
	mem := sweepStore(t, []models.Task{
		dueTask("t-1", "2026-06-12", "broken@x.com", models.StatusInProgress),
	})
	dispatcher := &recordingDispatcher{
		failFor: map[string]error{"broken@x.com": errors.New("relay down")},
	}
	svc := NewServiceWithClock(mem, dispatcher, fixedClock)

	report, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, report.Outcome)
}

func TestSweepSameDayRerunResends(t *testing.T) {
	// there is no de-duplication guard: a second sweep on the same
	// simulated day re-sends the same reminder
	mem := sweepStore(t, []models.Task{
		dueTask("t-1", "2026-06-12", "a@x.com", models.StatusInProgress),
	})
	dispatcher := &recordingDispatcher{}
	svc := NewServiceWithClock(mem, dispatcher, fixedClock)
	ctx := context.Background()

	first, err := svc.Sweep(ctx)
	require.NoError(t, err)
	second, err := svc.Sweep(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, first.RemindersSent)
	assert.Equal(t, 1, second.RemindersSent)
	assert.Len(t, dispatcher.sent, 2)
}

func TestSweepStoreReadFailureIsFatal(t *testing.T) {
	mem := sweepStore(t, nil)
	svc := NewServiceWithClock(mem, &recordingDispatcher{}, fixedClock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Sweep(ctx)
	assert.Error(t, err)
}

func TestDiffDaysIgnoresWallClockTime(t *testing.T) {
	due := time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC)
	lateEvening := time.Date(2026, 6, 10, 23, 59, 0, 0, time.UTC)
	if got := diffDays(due, lateEvening); got != 2 {
		t.Errorf("diffDays at 23:59 = %d, want 2", got)
	}
	earlyMorning := time.Date(2026, 6, 10, 0, 1, 0, 0, time.UTC)
	if got := diffDays(due, earlyMorning); got != 2 {
		t.Errorf("diffDays at 00:01 = %d, want 2", got)
	}
}
