// Package sqlite implements a SQLite-backed storage.Repository on the pure-Go
// modernc.org/sqlite driver. SQLite has no bulk-load API, so CopyFrom runs a
// prepared INSERT per row inside one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/ddl"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/model"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/storage"

	_ "modernc.org/sqlite"
)

// Config holds SQLite repository configuration. DSN is passed to
// database/sql as-is, e.g. "sparkify.db" or "file:sparkify.db?_pragma=busy_timeout(5000)".
type Config struct {
	DSN     string
	Table   string
	Columns []string
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// Dialect renders SQLite DDL. Timestamps are stored as TEXT.
var Dialect = ddl.Dialect{
	Name:       "sqlite",
	QuoteIdent: ddl.DoubleQuote,
	MapType:    mapType,
}

func mapType(logical string) string {
	switch logical {
	case model.TypeInt, model.TypeBigint:
		return "INTEGER"
	case model.TypeDouble:
		return "REAL"
	default:
		return "TEXT"
	}
}

// NewRepository opens a SQLite database and returns a Repository plus a
// Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// One writer; also keeps ":memory:" on a single database.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	closeFn := func() { _ = db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// CopyFrom inserts rows into the configured table in one transaction.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	stmt := Dialect.InsertSQL(r.cfg.Table, columns, 1, ddl.Question)
	n, err := storage.InsertTx(ctx, r.db, stmt, columns, rows)
	if err != nil {
		return n, fmt.Errorf("sqlite: %w", err)
	}
	return n, nil
}

// Exec executes a single statement, typically DDL.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sql); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}
