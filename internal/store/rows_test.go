package store

import (
	"testing"

	"github.com/thenoetrevino/rumbo/internal/models"
)

func TestTaskRowRoundTrip(t *testing.T) {
	task := models.Task{
		ID:           "t-1",
		ProjectID:    "p-1",
		Title:        "Write report",
		Description:  "quarterly numbers",
		AssignedTo:   "a@x.com",
		StartDate:    "2026-01-05",
		EndDate:      "2026-01-12",
		DueDate:      "2026-01-12",
		Status:       models.StatusInProgress,
		Attachments:  []string{"https://x.com/a.pdf", "https://x.com/b.pdf"},
		ParentTaskID: "t-0",
	}

	row := RowFromTask(task)
	if len(row) != TaskColumnCount {
		t.Fatalf("encoded row has %d cells, want %d", len(row), TaskColumnCount)
	}
	if row[TaskColAttachments] != "https://x.com/a.pdf,https://x.com/b.pdf" {
		t.Errorf("attachments cell = %q", row[TaskColAttachments])
	}

	decoded, err := TaskFromRow(row)
	if err != nil {
		t.Fatalf("TaskFromRow: %v", err)
	}
	if decoded.ID != task.ID || decoded.ParentTaskID != task.ParentTaskID {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
	if len(decoded.Attachments) != 2 {
		t.Errorf("attachments = %v", decoded.Attachments)
	}
}

func TestTaskFromRowToleratesShortRows(t *testing.T) {
	// trailing empty cells get dropped by spreadsheet-style stores
	task, err := TaskFromRow([]string{"t-1", "p-1", "Title"})
	if err != nil {
		t.Fatalf("TaskFromRow: %v", err)
	}
	if task.ParentTaskID != "" || task.Status != "" {
		t.Errorf("missing cells should decode as empty: %+v", task)
	}
	if task.IsSubtask() {
		t.Error("padded task should be a main task")
	}
}

func TestTaskFromRowRejectsBadRows(t *testing.T) {
	if _, err := TaskFromRow(make([]string, TaskColumnCount+1)); err == nil {
		t.Error("expected error for oversized row")
	}
	if _, err := TaskFromRow([]string{"", "p-1"}); err == nil {
		t.Error("expected error for row without id")
	}
}

func TestProjectRowRoundTrip(t *testing.T) {
	project := models.Project{
		ID:       "p-1",
		Name:     "Launch",
		Owner:    "owner@x.com",
		Status:   models.StatusInProgress,
		Progress: 50,
	}

	decoded, err := ProjectFromRow(RowFromProject(project))
	if err != nil {
		t.Fatalf("ProjectFromRow: %v", err)
	}
	if decoded.Progress != 50 || decoded.Owner != "owner@x.com" {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}

func TestProjectFromRowProgress(t *testing.T) {
	row := RowFromProject(models.Project{ID: "p-1"})
	row[ProjectColProgress] = ""
	project, err := ProjectFromRow(row)
	if err != nil {
		t.Fatalf("empty progress should decode: %v", err)
	}
	if project.Progress != 0 {
		t.Errorf("empty progress = %d, want 0", project.Progress)
	}

	row[ProjectColProgress] = "fifty"
	if _, err := ProjectFromRow(row); err == nil {
		t.Error("expected error for non-numeric progress")
	}
}
