// Package mysql implements a MySQL repository on go-sql-driver/mysql. Rows
// are loaded with multi-row INSERT statements kept under the server's
// placeholder limit.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/ddl"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/model"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/storage"

	"github.com/go-sql-driver/mysql"
)

// maxPlaceholders is the prepared-statement parameter limit of MySQL.
const maxPlaceholders = 65535

// Config holds MySQL repository configuration. DSN uses the driver format,
// e.g. "user:pass@tcp(localhost:3306)/sparkify".
type Config struct {
	DSN     string
	Table   string
	Columns []string
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// Dialect renders MySQL DDL.
var Dialect = ddl.Dialect{
	Name:       "mysql",
	QuoteIdent: ddl.Backtick,
	MapType:    mapType,
}

func mapType(logical string) string {
	switch logical {
	case model.TypeInt:
		return "INT"
	case model.TypeBigint:
		return "BIGINT"
	case model.TypeDouble:
		return "DOUBLE"
	case model.TypeTimestamp:
		return "DATETIME(3)"
	default:
		return "TEXT"
	}
}

// NewRepository validates the DSN, opens a pool and pings it.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	dc, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql dsn: %w", err)
	}
	dc.Loc = time.UTC
	dc.ParseTime = true

	conn, err := mysql.NewConnector(dc)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(conn)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	closeFn := func() { _ = db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// rowsPerStatement is how many rows fit in one INSERT for the given column
// count.
func rowsPerStatement(columns int) int {
	if columns <= 0 {
		return 0
	}
	return maxPlaceholders / columns
}

// CopyFrom inserts rows with multi-row INSERT statements inside one
// transaction.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("mysql: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}

	var inserted int64
	step := rowsPerStatement(len(columns))
	for start := 0; start < len(rows); start += step {
		end := min(start+step, len(rows))
		chunk := rows[start:end]

		args := make([]any, 0, len(chunk)*len(columns))
		for i, row := range chunk {
			if len(row) != len(columns) {
				_ = tx.Rollback()
				return 0, fmt.Errorf("mysql: row %d has %d values, want %d", start+i, len(row), len(columns))
			}
			args = append(args, storage.NormalizeRow(row)...)
		}

		stmt := Dialect.InsertSQL(r.cfg.Table, columns, len(chunk), ddl.Question)
		res, err := tx.ExecContext(ctx, stmt, args...)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert rows %d-%d: %w", start, end-1, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// Exec executes a SQL statement against the pool.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	_, err := r.db.ExecContext(ctx, sqlText)
	return err
}
