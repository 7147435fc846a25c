package models

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a task or a project.
// The backing store holds free text, so comparisons are case-insensitive.
type Status string

// Task and project statuses
const (
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusBlocked    Status = "Blocked"
)

// Equals compares two statuses ignoring case and surrounding whitespace
func (s Status) Equals(other Status) bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), strings.TrimSpace(string(other)))
}

// IsCompleted reports whether the status counts as completed
func (s Status) IsCompleted() bool {
	return s.Equals(StatusCompleted)
}

// DateLayout is the wire format for all date cells in the store
const DateLayout = "2006-01-02"

// ParseDate parses a store date cell. The zero time and an error are
// returned for empty or malformed values; callers decide whether that is
// fatal (it never is for overlap and sweep computations).
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}
