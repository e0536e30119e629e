// Package duckdb implements an embedded DuckDB repository. The driver needs
// cgo. CopyFrom runs a prepared INSERT per row inside one transaction.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/ddl"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/model"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/storage"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Config holds DuckDB repository configuration. DSN is a database file path,
// optionally followed by DuckDB settings: "sparkify.duckdb?threads=4". An
// empty path opens an in-memory database.
type Config struct {
	DSN     string
	Table   string
	Columns []string
}

// Repository is a DuckDB-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// Dialect renders DuckDB DDL.
var Dialect = ddl.Dialect{
	Name:       "duckdb",
	QuoteIdent: ddl.DoubleQuote,
	MapType:    mapType,
}

func mapType(logical string) string {
	switch logical {
	case model.TypeInt:
		return "INTEGER"
	case model.TypeBigint:
		return "BIGINT"
	case model.TypeDouble:
		return "DOUBLE"
	case model.TypeTimestamp:
		return "TIMESTAMP"
	default:
		return "VARCHAR"
	}
}

// connString disables extension auto-install so a load never reaches the
// network.
func connString(dsn string) string {
	const opts = "autoinstall_known_extensions=false&autoload_known_extensions=false"
	dsn = strings.TrimSpace(dsn)
	if strings.Contains(dsn, "?") {
		return dsn + "&" + opts
	}
	return dsn + "?" + opts
}

// NewRepository opens the database and returns a Repository plus a Close
// function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	db, err := sql.Open("duckdb", connString(cfg.DSN))
	if err != nil {
		return nil, nil, fmt.Errorf("duckdb: open: %w", err)
	}
	// DuckDB allows a single writer per process.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("duckdb: ping: %w", err)
	}
	closeFn := func() { _ = db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// CopyFrom inserts rows into the configured table in one transaction.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	stmt := Dialect.InsertSQL(r.cfg.Table, columns, 1, ddl.Question)
	n, err := storage.InsertTx(ctx, r.db, stmt, columns, rows)
	if err != nil {
		return n, fmt.Errorf("duckdb: %w", err)
	}
	return n, nil
}

// Exec executes a single statement, typically DDL.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	if _, err := r.db.ExecContext(ctx, sqlText); err != nil {
		return fmt.Errorf("duckdb: exec: %w", err)
	}
	return nil
}
