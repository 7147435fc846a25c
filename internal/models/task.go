package models

// Task represents a single task record in the tracker.
// Date fields carry the raw store cells (YYYY-MM-DD or empty); they are
// parsed at point of use so one malformed cell never poisons a whole batch.
type Task struct {
	ID           string
	ProjectID    string
	Title        string
	Description  string
	AssignedTo   string
	StartDate    string
	EndDate      string
	DueDate      string
	Status       Status
	Attachments  []string
	ParentTaskID string
}

// IsSubtask reports whether the task has a parent and is therefore
// excluded from its project's progress aggregate
func (t Task) IsSubtask() bool {
	return t.ParentTaskID != ""
}

// HasSchedule reports whether both schedule endpoints parse as dates.
// Tasks without a full schedule are ignored by overlap detection.
func (t Task) HasSchedule() bool {
	if t.StartDate == "" || t.EndDate == "" {
		return false
	}
	if _, err := ParseDate(t.StartDate); err != nil {
		return false
	}
	if _, err := ParseDate(t.EndDate); err != nil {
		return false
	}
	return true
}
