package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thenoetrevino/rumbo/internal/models"
)

// padRow returns a copy of row widened with empty cells up to width.
// Trailing empty cells are routinely dropped by spreadsheet-style stores,
// so short rows are tolerated rather than rejected.
func padRow(row []string, width int) []string {
	padded := make([]string, width)
	copy(padded, row)
	return padded
}

// TaskFromRow decodes a Tasks table row tuple
func TaskFromRow(row []string) (models.Task, error) {
	if len(row) > TaskColumnCount {
		return models.Task{}, fmt.Errorf("task row has %d cells, want at most %d", len(row), TaskColumnCount)
	}
	row = padRow(row, TaskColumnCount)

	if row[TaskColID] == "" {
		return models.Task{}, fmt.Errorf("task row is missing an id")
	}

	var attachments []string
	if raw := strings.TrimSpace(row[TaskColAttachments]); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				attachments = append(attachments, part)
			}
		}
	}

	return models.Task{
		ID:           row[TaskColID],
		ProjectID:    row[TaskColProjectID],
		Title:        row[TaskColTitle],
		Description:  row[TaskColDescription],
		AssignedTo:   row[TaskColAssignedTo],
		StartDate:    row[TaskColStartDate],
		EndDate:      row[TaskColEndDate],
		DueDate:      row[TaskColDueDate],
		Status:       models.Status(row[TaskColStatus]),
		Attachments:  attachments,
		ParentTaskID: row[TaskColParentTaskID],
	}, nil
}

// RowFromTask encodes a task as a full Tasks table row tuple
func RowFromTask(task models.Task) []string {
	row := make([]string, TaskColumnCount)
	row[TaskColID] = task.ID
	row[TaskColProjectID] = task.ProjectID
	row[TaskColTitle] = task.Title
	row[TaskColDescription] = task.Description
	row[TaskColAssignedTo] = task.AssignedTo
	row[TaskColStartDate] = task.StartDate
	row[TaskColEndDate] = task.EndDate
	row[TaskColDueDate] = task.DueDate
	row[TaskColStatus] = string(task.Status)
	row[TaskColAttachments] = strings.Join(task.Attachments, ",")
	row[TaskColParentTaskID] = task.ParentTaskID
	return row
}

// ProjectFromRow decodes a Projects table row tuple
func ProjectFromRow(row []string) (models.Project, error) {
	if len(row) > ProjectColumnCount {
		return models.Project{}, fmt.Errorf("project row has %d cells, want at most %d", len(row), ProjectColumnCount)
	}
	row = padRow(row, ProjectColumnCount)

	if row[ProjectColID] == "" {
		return models.Project{}, fmt.Errorf("project row is missing an id")
	}

	progress := 0
	if raw := strings.TrimSpace(row[ProjectColProgress]); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return models.Project{}, fmt.Errorf("project %s has non-numeric progress %q: %w", row[ProjectColID], raw, err)
		}
		progress = parsed
	}

	return models.Project{
		ID:          row[ProjectColID],
		Name:        row[ProjectColName],
		Owner:       row[ProjectColOwner],
		Description: row[ProjectColDescription],
		StartDate:   row[ProjectColStartDate],
		EndDate:     row[ProjectColEndDate],
		Status:      models.Status(row[ProjectColStatus]),
		Progress:    progress,
	}, nil
}

// RowFromProject encodes a project as a full Projects table row tuple
func RowFromProject(project models.Project) []string {
	row := make([]string, ProjectColumnCount)
	row[ProjectColID] = project.ID
	row[ProjectColName] = project.Name
	row[ProjectColOwner] = project.Owner
	row[ProjectColDescription] = project.Description
	row[ProjectColStartDate] = project.StartDate
	row[ProjectColEndDate] = project.EndDate
	row[ProjectColStatus] = string(project.Status)
	row[ProjectColProgress] = strconv.Itoa(project.Progress)
	return row
}
