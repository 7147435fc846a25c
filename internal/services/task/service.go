// Package task implements the task mutation flow that wraps the
// reconciliation engine. Every create, update and delete re-derives the
// affected project's status and progress; a subtask update additionally
// runs the completion cascade, and the cascade write is acknowledged
// before derivation reads, so a cascaded parent completion lands in the
// same derivation pass.
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/thenoetrevino/rumbo/internal/models"
	"github.com/thenoetrevino/rumbo/internal/notify"
	"github.com/thenoetrevino/rumbo/internal/services/recon"
	"github.com/thenoetrevino/rumbo/internal/store"
)

// Service defines all task mutation and read operations
type Service interface {
	// Read operations
	GetTask(ctx context.Context, taskID string) (*models.Task, error)
	ListTasks(ctx context.Context, projectID string) ([]models.Task, error)

	// Write operations
	CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, req UpdateTaskRequest) error
	DeleteTask(ctx context.Context, taskID string) error
}

// CreateTaskRequest encapsulates all data needed to create a task.
// A non-empty ParentTaskID makes the task a subtask; its ProjectID is
// inherited from the parent at creation time regardless of what the
// caller supplies.
type CreateTaskRequest struct {
	ProjectID    string
	Title        string
	Description  string
	AssignedTo   string
	StartDate    string
	EndDate      string
	DueDate      string
	Status       models.Status // empty means Not Started
	Attachments  []string
	ParentTaskID string
}

// UpdateTaskRequest encapsulates all data needed to update a task.
// Pointer fields are optional: nil means leave the stored value alone.
// Project membership and parent links are fixed at creation.
type UpdateTaskRequest struct {
	TaskID      string
	Title       *string
	Description *string
	AssignedTo  *string
	StartDate   *string
	EndDate     *string
	DueDate     *string
	Status      *models.Status
	Attachments *[]string
}

// service implements Service
type service struct {
	store      store.Tabular
	recon      recon.Service
	dispatcher notify.Dispatcher
}

// NewService creates a new task service
func NewService(tab store.Tabular, reconciler recon.Service, dispatcher notify.Dispatcher) Service {
	return &service{store: tab, recon: reconciler, dispatcher: dispatcher}
}

var knownStatuses = []models.Status{
	models.StatusNotStarted,
	models.StatusInProgress,
	models.StatusCompleted,
	models.StatusBlocked,
}

func validStatus(status models.Status) bool {
	for _, known := range knownStatuses {
		if status.Equals(known) {
			return true
		}
	}
	return false
}

// CreateTask appends a new task row, then re-derives the project
func (s *service) CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error) {
	if err := s.validateCreateTask(req); err != nil {
		return nil, err
	}

	task := models.Task{
		ID:           uuid.NewString(),
		ProjectID:    req.ProjectID,
		Title:        req.Title,
		Description:  req.Description,
		AssignedTo:   req.AssignedTo,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		DueDate:      req.DueDate,
		Status:       req.Status,
		Attachments:  req.Attachments,
		ParentTaskID: req.ParentTaskID,
	}
	if task.Status == "" {
		task.Status = models.StatusNotStarted
	}

	if task.ParentTaskID != "" {
		parent, _, err := s.findTask(ctx, task.ParentTaskID)
		if err != nil {
			if errors.Is(err, ErrTaskNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		// a subtask always lives in its parent's project
		task.ProjectID = parent.ProjectID
	}

	if err := s.store.AppendRow(ctx, store.TasksTable, store.RowFromTask(task)); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	// a subtask created as Completed can finish off its parent's set
	if err := s.recon.ResolveSubtaskCascade(ctx, task); err != nil {
		return nil, err
	}
	if err := s.afterMutation(ctx, task.ProjectID); err != nil {
		return nil, err
	}

	return &task, nil
}

// UpdateTask replaces the task's full row at a freshly derived position,
// then runs cascade resolution and project derivation in that order
func (s *service) UpdateTask(ctx context.Context, req UpdateTaskRequest) error {
	if req.TaskID == "" {
		return ErrInvalidTaskID
	}
	if req.Title != nil && *req.Title == "" {
		return ErrEmptyTitle
	}
	if req.Title != nil && len(*req.Title) > 255 {
		return ErrTitleTooLong
	}
	if req.Status != nil && !validStatus(*req.Status) {
		return ErrInvalidStatus
	}

	task, index, err := s.findTask(ctx, req.TaskID)
	if err != nil {
		return err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.AssignedTo != nil {
		task.AssignedTo = *req.AssignedTo
	}
	if req.StartDate != nil {
		task.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		task.EndDate = *req.EndDate
	}
	if req.DueDate != nil {
		task.DueDate = *req.DueDate
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Attachments != nil {
		task.Attachments = *req.Attachments
	}

	if err := s.store.UpdateRowAt(ctx, store.TasksTable, index, store.RowFromTask(task)); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	// cascade must be persisted before derivation reads task rows,
	// otherwise derivation would see a stale parent status
	if err := s.recon.ResolveSubtaskCascade(ctx, task); err != nil {
		return err
	}
	return s.afterMutation(ctx, task.ProjectID)
}

// DeleteTask removes the task row at a freshly derived position, then
// re-derives the project
func (s *service) DeleteTask(ctx context.Context, taskID string) error {
	if taskID == "" {
		return ErrInvalidTaskID
	}

	task, index, err := s.findTask(ctx, taskID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteRowAt(ctx, store.TasksTable, index); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return s.afterMutation(ctx, task.ProjectID)
}

// GetTask retrieves a single task by id
func (s *service) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	if taskID == "" {
		return nil, ErrInvalidTaskID
	}
	task, _, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks retrieves every task of a project, subtasks included
func (s *service) ListTasks(ctx context.Context, projectID string) ([]models.Task, error) {
	if projectID == "" {
		return nil, ErrInvalidProjectID
	}

	rows, err := s.store.ReadRows(ctx, store.TasksTable)
	if err != nil {
		return nil, fmt.Errorf("failed to read task rows: %w", err)
	}

	var tasks []models.Task
	for i, row := range rows {
		task, err := store.TaskFromRow(row)
		if err != nil {
			slog.Warn("skipping undecodable task row", "position", i, "error", err)
			continue
		}
		if task.ProjectID == projectID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

// findTask locates a task and its current row position from a fresh read.
// The position is only valid until the next mutation of the table.
func (s *service) findTask(ctx context.Context, taskID string) (models.Task, int, error) {
	rows, err := s.store.ReadRows(ctx, store.TasksTable)
	if err != nil {
		return models.Task{}, 0, fmt.Errorf("failed to read task rows: %w", err)
	}
	for i, row := range rows {
		if len(row) > store.TaskColID && row[store.TaskColID] == taskID {
			task, err := store.TaskFromRow(row)
			if err != nil {
				return models.Task{}, 0, fmt.Errorf("failed to decode task %s: %w", taskID, err)
			}
			return task, i, nil
		}
	}
	return models.Task{}, 0, ErrTaskNotFound
}

// afterMutation re-derives the project and fires the one-time completion
// notification when this mutation produced the Completed edge. A failed
// derivation write fails the mutation even though the task row itself is
// already persisted; a failed notification never does.
func (s *service) afterMutation(ctx context.Context, projectID string) error {
	result, err := s.recon.RecalcProjectStatus(ctx, projectID)
	if err != nil {
		return err
	}
	if result == nil || !result.JustCompleted {
		return nil
	}

	subject := fmt.Sprintf("Project completed: %s", result.ProjectName)
	body := fmt.Sprintf("All tasks in project %q are completed.\n", result.ProjectName)
	if err := s.dispatcher.Send(ctx, result.OwnerContact, subject, body); err != nil {
		slog.Error("project completion notification failed",
			"project_id", projectID, "recipient", result.OwnerContact, "error", err)
	}
	return nil
}

// validateCreateTask validates a CreateTaskRequest
func (s *service) validateCreateTask(req CreateTaskRequest) error {
	if req.Title == "" {
		return ErrEmptyTitle
	}
	if len(req.Title) > 255 {
		return ErrTitleTooLong
	}
	if req.ProjectID == "" && req.ParentTaskID == "" {
		return ErrInvalidProjectID
	}
	if req.Status != "" && !validStatus(req.Status) {
		return ErrInvalidStatus
	}
	return nil
}
