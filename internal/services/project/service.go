// Package project implements the project mutation flow and the read-path
// overlap reporting. Project status and progress are derived state: they
// are never taken from a caller, only from the reconciliation engine.
package project

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/thenoetrevino/rumbo/internal/models"
	"github.com/thenoetrevino/rumbo/internal/overlap"
	"github.com/thenoetrevino/rumbo/internal/store"
)

// Service defines all project-related business operations
type Service interface {
	// Read operations
	GetProject(ctx context.Context, projectID string) (*models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	// OverlapWarnings reports, for each scheduled task of the project,
	// the ids of the other tasks its date range overlaps. Presentation
	// only; it never touches persisted state.
	OverlapWarnings(ctx context.Context, projectID string) (map[string][]string, error)

	// Write operations
	CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error)
	UpdateProject(ctx context.Context, req UpdateProjectRequest) error
	DeleteProject(ctx context.Context, projectID string) error
}

// CreateProjectRequest encapsulates data for creating a project
type CreateProjectRequest struct {
	Name        string
	Owner       string
	Description string
	StartDate   string
	EndDate     string
}

// UpdateProjectRequest encapsulates data for updating a project.
// Pointer fields are optional: nil means leave the stored value alone.
// There are deliberately no status or progress fields here; any such
// value a transport layer receives must be dropped before reaching this
// service.
type UpdateProjectRequest struct {
	ProjectID   string
	Name        *string
	Owner       *string
	Description *string
	StartDate   *string
	EndDate     *string
}

// service implements Service
type service struct {
	store store.Tabular
}

// NewService creates a new project service
func NewService(tab store.Tabular) Service {
	return &service{store: tab}
}

// CreateProject appends a new project row with freshly derived (empty)
// state: Not Started, zero progress
func (s *service) CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error) {
	if req.Name == "" {
		return nil, ErrEmptyName
	}
	if len(req.Name) > 255 {
		return nil, ErrNameTooLong
	}

	project := models.Project{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Owner:       req.Owner,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      models.StatusNotStarted,
		Progress:    0,
	}

	if err := s.store.AppendRow(ctx, store.ProjectsTable, store.RowFromProject(project)); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &project, nil
}

// UpdateProject replaces the project's describable fields at a freshly
// derived position. Stored status and progress cells are carried over
// untouched; only the reconciliation engine writes those.
func (s *service) UpdateProject(ctx context.Context, req UpdateProjectRequest) error {
	if req.ProjectID == "" {
		return ErrInvalidProjectID
	}
	if req.Name != nil && *req.Name == "" {
		return ErrEmptyName
	}
	if req.Name != nil && len(*req.Name) > 255 {
		return ErrNameTooLong
	}

	project, index, err := s.findProject(ctx, req.ProjectID)
	if err != nil {
		return err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Owner != nil {
		project.Owner = *req.Owner
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.StartDate != nil {
		project.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = *req.EndDate
	}

	if err := s.store.UpdateRowAt(ctx, store.ProjectsTable, index, store.RowFromProject(project)); err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}

// DeleteProject removes the project row. Its tasks must be removed first;
// orphaned task rows would silently stop contributing to anything.
func (s *service) DeleteProject(ctx context.Context, projectID string) error {
	if projectID == "" {
		return ErrInvalidProjectID
	}

	tasks, err := s.projectTasks(ctx, projectID)
	if err != nil {
		return err
	}
	if len(tasks) > 0 {
		return ErrProjectHasTasks
	}

	_, index, err := s.findProject(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteRowAt(ctx, store.ProjectsTable, index); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// GetProject retrieves a single project
func (s *service) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	if projectID == "" {
		return nil, ErrInvalidProjectID
	}
	project, _, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListProjects retrieves all projects
func (s *service) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.store.ReadRows(ctx, store.ProjectsTable)
	if err != nil {
		return nil, fmt.Errorf("failed to read project rows: %w", err)
	}

	var projects []models.Project
	for i, row := range rows {
		project, err := store.ProjectFromRow(row)
		if err != nil {
			slog.Warn("skipping undecodable project row", "position", i, "error", err)
			continue
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// OverlapWarnings computes schedule overlaps across the project's tasks
func (s *service) OverlapWarnings(ctx context.Context, projectID string) (map[string][]string, error) {
	if projectID == "" {
		return nil, ErrInvalidProjectID
	}
	if _, _, err := s.findProject(ctx, projectID); err != nil {
		return nil, err
	}

	tasks, err := s.projectTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return overlap.Warnings(tasks), nil
}

// projectTasks loads every task belonging to the project
func (s *service) projectTasks(ctx context.Context, projectID string) ([]models.Task, error) {
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

// findProject locates a project and its current row position from a
// fresh read
func (s *service) findProject(ctx context.Context, projectID string) (models.Project, int, error) {
	rows, err := s.store.ReadRows(ctx, store.ProjectsTable)
	if err != nil {
		return models.Project{}, 0, fmt.Errorf("failed to read project rows: %w", err)
	}
	for i, row := range rows {
		if len(row) > store.ProjectColID && row[store.ProjectColID] == projectID {
			project, err := store.ProjectFromRow(row)
			if err != nil {
				return models.Project{}, 0, fmt.Errorf("failed to decode project %s: %w", projectID, err)
			}
			return project, i, nil
		}
	}
	return models.Project{}, 0, ErrProjectNotFound
}
