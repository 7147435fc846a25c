// Package recon implements the derived-state reconciliation engine:
// project status/progress derivation from task records, and subtask
// completion cascade to parent tasks.
//
// The backing store has no transactions and no row locking. Two concurrent
// mutations against the same project can both read the same snapshot,
// compute divergent derived state, and the later write wins silently.
// That race window is a documented property of the system, not something
// this package works around.
package recon

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/thenoetrevino/rumbo/internal/models"
	"github.com/thenoetrevino/rumbo/internal/store"
)

// Result reports the outcome of a project recalculation. It is nil when
// the project does not exist.
type Result struct {
	// JustCompleted is true exactly once per transition into Completed:
	// on the recalculation that moved the project from any other status
	// to Completed, and never on later no-op recalculations
	JustCompleted bool
	ProjectName   string
	OwnerContact  string
	Status        models.Status
	Progress      int
}

// Service defines the reconciliation operations invoked by the task and
// project mutation flows
type Service interface {
	// RecalcProjectStatus recomputes the project's derived status and
	// progress from its main tasks and persists them. A missing project
	// is a silent no-op returning (nil, nil).
	RecalcProjectStatus(ctx context.Context, projectID string) (*Result, error)

	// ResolveSubtaskCascade conditionally completes the parent of the
	// updated subtask. It must run, and its write must be acknowledged,
	// before RecalcProjectStatus for the same mutation.
	ResolveSubtaskCascade(ctx context.Context, updated models.Task) error
}

// service implements Service
type service struct {
	store store.Tabular
}

// NewService creates a new reconciliation service
func NewService(tab store.Tabular) Service {
	return &service{store: tab}
}

// readTasks loads and decodes every task row. Rows that fail to decode are
// logged and skipped so one corrupt row never blocks reconciliation of the
// rest of the table. The raw rows are returned alongside, index-aligned,
// because positional writes must replace the full stored tuple.
func (s *service) readTasks(ctx context.Context) ([][]string, []models.Task, error) {
	rows, err := s.store.ReadRows(ctx, store.TasksTable)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read task rows: %w", err)
	}

	tasks := make([]models.Task, len(rows))
	for i, row := range rows {
		task, err := store.TaskFromRow(row)
		if err != nil {
			slog.Warn("skipping undecodable task row", "position", i, "error", err)
			continue
		}
		tasks[i] = task
	}
	return rows, tasks, nil
}

// RecalcProjectStatus derives status and progress for the project from its
// main tasks (subtasks are excluded from the aggregate) and writes them
// back onto the project's row, leaving every other cell untouched.
func (s *service) RecalcProjectStatus(ctx context.Context, projectID string) (*Result, error) {
	if projectID == "" {
		return nil, ErrInvalidProjectID
	}

	_, tasks, err := s.readTasks(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	completed := 0
	active := false
	for _, task := range tasks {
		if task.ID == "" || task.ProjectID != projectID || task.IsSubtask() {
			continue
		}
		total++
		switch {
		case task.Status.IsCompleted():
			completed++
			active = true
		case task.Status.Equals(models.StatusInProgress):
			active = true
		}
	}

	status := models.StatusNotStarted
	progress := 0
	switch {
	case total > 0 && completed == total:
		status = models.StatusCompleted
		progress = 100
	case active:
		status = models.StatusInProgress
		progress = int(math.Round(100 * float64(completed) / float64(total)))
	case total > 0:
		progress = int(math.Round(100 * float64(completed) / float64(total)))
	}

	// fresh read of the Projects table right before the write; positions
	// may have shifted since any earlier read
	projectRows, err := s.store.ReadRows(ctx, store.ProjectsTable)
	if err != nil {
		return nil, fmt.Errorf("failed to read project rows: %w", err)
	}

	index := -1
	for i, row := range projectRows {
		if len(row) > store.ProjectColID && row[store.ProjectColID] == projectID {
			index = i
			break
		}
	}
	if index == -1 {
		// project deleted out from under us; callers tolerate this
		slog.Debug("recalculation skipped, project not found", "project_id", projectID)
		return nil, nil
	}

	current, err := store.ProjectFromRow(projectRows[index])
	if err != nil {
		return nil, fmt.Errorf("failed to decode project %s: %w", projectID, err)
	}
	previous := current.Status

	updated := RowWithDerivedState(projectRows[index], status, progress)
	if err := s.store.UpdateRowAt(ctx, store.ProjectsTable, index, updated); err != nil {
		return nil, fmt.Errorf("failed to write derived state for project %s: %w", projectID, err)
	}

	result := &Result{
		JustCompleted: !previous.IsCompleted() && status == models.StatusCompleted,
		ProjectName:   current.Name,
		OwnerContact:  current.Owner,
		Status:        status,
		Progress:      progress,
	}

	slog.Debug("project derived state recalculated",
		"project_id", projectID,
		"status", status,
		"progress", progress,
		"main_tasks", total,
		"completed", completed,
		"just_completed", result.JustCompleted,
	)
	return result, nil
}

// ResolveSubtaskCascade completes the parent task when every one of its
// subtasks is Completed. It fires only for a subtask that just reached
// Completed, never recurses past one level, and never touches a parent
// that has no subtasks.
func (s *service) ResolveSubtaskCascade(ctx context.Context, updated models.Task) error {
	if !updated.IsSubtask() || !updated.Status.IsCompleted() {
		return nil
	}

	rows, tasks, err := s.readTasks(ctx)
	if err != nil {
		return err
	}

	parentIndex := -1
	var parent models.Task
	for i, task := range tasks {
		if task.ID != "" && task.ID == updated.ParentTaskID {
			parentIndex = i
			parent = task
			break
		}
	}
	if parentIndex == -1 {
		// dangling parent reference; nothing to cascade
		slog.Debug("cascade skipped, parent not found", "parent_id", updated.ParentTaskID)
		return nil
	}

	if parent.Status.IsCompleted() {
		// already done; a redundant write would be a wasted store call
		return nil
	}

	subtasks := 0
	for _, task := range tasks {
		if task.ID == "" || task.ParentTaskID != parent.ID {
			continue
		}
		subtasks++
		if !task.Status.IsCompleted() {
			return nil
		}
	}
	if subtasks == 0 {
		return nil
	}

	row := make([]string, store.TaskColumnCount)
	copy(row, rows[parentIndex])
	row[store.TaskColStatus] = string(models.StatusCompleted)

	if err := s.store.UpdateRowAt(ctx, store.TasksTable, parentIndex, row); err != nil {
		return fmt.Errorf("failed to complete parent task %s: %w", parent.ID, err)
	}

	slog.Info("parent task auto-completed by subtask cascade",
		"parent_id", parent.ID,
		"subtasks", subtasks,
	)
	return nil
}

// RowWithDerivedState returns a full project row with only the status and
// progress cells replaced. Mutation handlers use it too, to guarantee the
// two derived cells are never caller-settable.
func RowWithDerivedState(row []string, status models.Status, progress int) []string {
	out := make([]string, store.ProjectColumnCount)
	copy(out, row)
	out[store.ProjectColStatus] = string(status)
	out[store.ProjectColProgress] = fmt.Sprintf("%d", progress)
	return out
}
