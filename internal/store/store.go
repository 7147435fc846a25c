// Package store defines the tabular backing store contract and its
// implementations. Rows are ordered tuples of string cells addressed by
// position; there are no multi-row transactions and every call is
// independently visible once it returns. Positions shift after deletes,
// so callers must re-derive a row's position from a fresh read immediately
// before each write and never cache it across calls.
package store

import "context"

// Table names
const (
	TasksTable    = "Tasks"
	ProjectsTable = "Projects"
)

// Column positions for the Tasks table
const (
	TaskColID = iota
	TaskColProjectID
	TaskColTitle
	TaskColDescription
	TaskColAssignedTo
	TaskColStartDate
	TaskColEndDate
	TaskColDueDate
	TaskColStatus
	TaskColAttachments
	TaskColParentTaskID

	TaskColumnCount = 11
)

// Column positions for the Projects table
const (
	ProjectColID = iota
	ProjectColName
	ProjectColOwner
	ProjectColDescription
	ProjectColStartDate
	ProjectColEndDate
	ProjectColStatus
	ProjectColProgress

	ProjectColumnCount = 8
)

// Tabular is the backing store client. Implementations provide best-effort,
// eventually-readable row storage with no row-level locking; concurrent
// writers are last-write-wins.
type Tabular interface {
	// ReadRows returns every row of the table in stable order
	ReadRows(ctx context.Context, table string) ([][]string, error)

	// AppendRow adds a row at the end of the table
	AppendRow(ctx context.Context, table string, row []string) error

	// UpdateRowAt replaces the full row at the given position.
	// Partial-column patches are not supported.
	UpdateRowAt(ctx context.Context, table string, index int, row []string) error

	// DeleteRowAt removes the row at the given position; rows after it
	// shift down by one
	DeleteRowAt(ctx context.Context, table string, index int) error
}
