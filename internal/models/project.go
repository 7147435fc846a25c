package models

// Project represents a container for tasks.
// Status and Progress are derived, read-only state: they are recomputed
// from the project's main tasks and any caller-supplied values for them
// are ignored on writes.
type Project struct {
	ID          string
	Name        string
	Owner       string
	Description string
	StartDate   string
	EndDate     string
	Status      Status
	Progress    int
}
