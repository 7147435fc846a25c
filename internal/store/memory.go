package store

import (
	"context"
	"sync"
)

// Memory is an in-process Tabular implementation. It is the default store
// for tests and dry runs: row ordering is fully controllable and failures
// can be injected per call to exercise error paths.
type Memory struct {
	mu     sync.Mutex
	tables map[string][][]string

	// FailNextWrite, when set, makes the next mutating call return the
	// given error and clears itself
	failNext error
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{tables: make(map[string][][]string)}
}

// Seed replaces the full contents of a table
func (m *Memory) Seed(table string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	m.tables[table] = copied
}

// FailNextWrite makes the next AppendRow/UpdateRowAt/DeleteRowAt fail
// with err, then restores normal behavior
func (m *Memory) FailNextWrite(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

func (m *Memory) takeInjectedFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

// ReadRows returns a deep copy of the table's rows
func (m *Memory) ReadRows(ctx context.Context, table string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.tables[table]
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

// AppendRow adds a row at the end of the table
func (m *Memory) AppendRow(ctx context.Context, table string, row []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeInjectedFailure(); err != nil {
		return err
	}

	m.tables[table] = append(m.tables[table], append([]string(nil), row...))
	return nil
}

// UpdateRowAt replaces the row at index with a full-row copy
func (m *Memory) UpdateRowAt(ctx context.Context, table string, index int, row []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeInjectedFailure(); err != nil {
		return err
	}

	rows := m.tables[table]
	if index < 0 || index >= len(rows) {
		return ErrRowOutOfRange
	}
	rows[index] = append([]string(nil), row...)
	return nil
}

// DeleteRowAt removes the row at index, shifting later rows down
func (m *Memory) DeleteRowAt(ctx context.Context, table string, index int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeInjectedFailure(); err != nil {
		return err
	}

	rows := m.tables[table]
	if index < 0 || index >= len(rows) {
		return ErrRowOutOfRange
	}
	m.tables[table] = append(rows[:index], rows[index+1:]...)
	return nil
}
