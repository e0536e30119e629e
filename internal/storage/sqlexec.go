package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InsertTx runs the single-row INSERT stmt once per row inside one
// transaction. It backs the database/sql drivers that have no bulk API.
func InsertTx(ctx context.Context, db *sql.DB, stmt string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("insert: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	ps, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer ps.Close()

	var inserted int64
	for i, row := range rows {
		if len(row) != len(columns) {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert: row %d has %d values, want %d", i, len(row), len(columns))
		}
		if _, err := ps.ExecContext(ctx, NormalizeRow(row)...); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert row %d: %w", i, err)
		}
		inserted++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// NormalizeRow returns row with typed nil pointers replaced by nil and other
// pointers dereferenced, so drivers that do not inspect pointers see plain
// values. row is not modified.
func NormalizeRow(row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		switch p := v.(type) {
		case *float64:
			if p != nil {
				out[i] = *p
			}
		case *int64:
			if p != nil {
				out[i] = *p
			}
		case *string:
			if p != nil {
				out[i] = *p
			}
		default:
			out[i] = v
		}
	}
	return out
}
