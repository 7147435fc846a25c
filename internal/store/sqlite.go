package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLite is a durable Tabular implementation backed by a single SQLite
// file. Each logical table is a contiguous run of rows in one physical
// table; a row's position is its rank in insertion order, re-resolved on
// every positional call. The positional contract is deliberately preserved
// as-is: there is still no cross-row transaction visible to callers.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the store database at path
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			slog.Error("failed to apply pragma", "pragma", pragma, "error", err)
			if closeErr := db.Close(); closeErr != nil {
				slog.Error("error closing db", "error", closeErr)
			}
			return nil, err
		}
	}

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing db", "error", closeErr)
		}
		return nil, fmt.Errorf("store database ping failed: %w", err)
	}

	// SQLite benefits from a single writer connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS tabular_rows (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tbl TEXT NOT NULL,
			cells TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_tabular_rows_tbl ON tabular_rows(tbl, id);
	`); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing db", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to create store schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database
func (s *SQLite) Close() error {
	return s.db.Close()
}

// ReadRows returns every row of the table in insertion order
func (s *SQLite) ReadRows(ctx context.Context, table string) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cells FROM tabular_rows WHERE tbl = ? ORDER BY id`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from %s: %w", table, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var encoded string
		if err := rows.Scan(&encoded); err != nil {
			return nil, err
		}
		var cells []string
		if err := json.Unmarshal([]byte(encoded), &cells); err != nil {
			return nil, fmt.Errorf("failed to decode row in %s: %w", table, err)
		}
		out = append(out, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AppendRow adds a row at the end of the table
func (s *SQLite) AppendRow(ctx context.Context, table string, row []string) error {
	encoded, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO tabular_rows (tbl, cells) VALUES (?, ?)`, table, string(encoded)); err != nil {
		return fmt.Errorf("failed to append row to %s: %w", table, err)
	}
	return nil
}

// rowKeyAt resolves the physical key of the row at position index
func (s *SQLite) rowKeyAt(ctx context.Context, table string, index int) (int64, error) {
	if index < 0 {
		return 0, ErrRowOutOfRange
	}
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM tabular_rows WHERE tbl = ? ORDER BY id LIMIT 1 OFFSET ?`,
		table, index,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ErrRowOutOfRange
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve row position %d in %s: %w", index, table, err)
	}
	return id, nil
}

// UpdateRowAt replaces the full row at the given position
func (s *SQLite) UpdateRowAt(ctx context.Context, table string, index int, row []string) error {
	id, err := s.rowKeyAt(ctx, table, index)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE tabular_rows SET cells = ? WHERE id = ?`, string(encoded), id); err != nil {
		return fmt.Errorf("failed to update row %d in %s: %w", index, table, err)
	}
	return nil
}

// DeleteRowAt removes the row at the given position
func (s *SQLite) DeleteRowAt(ctx context.Context, table string, index int) error {
	id, err := s.rowKeyAt(ctx, table, index)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM tabular_rows WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete row %d from %s: %w", index, table, err)
	}
	return nil
}
