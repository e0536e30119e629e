package mssql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/ddl"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/model"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/storage"
)

// --- Test driver plumbing for exercising Exec and CopyFrom without a real DB --

type errDriver struct{}

type errConn struct{}

func (d *errDriver) Open(name string) (driver.Conn, error) { return &errConn{}, nil }

func (c *errConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("unexpected Prepare call")
}

func (c *errConn) Close() error { return nil }

func (c *errConn) Begin() (driver.Tx, error) {
	return nil, errors.New("begin (legacy) should not be called")
}

// BeginTx always fails, to exercise the error path in CopyFrom.
func (c *errConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	return nil, errors.New("begin failed")
}

// ExecContext always fails, to exercise the error path in Exec.
func (c *errConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	return nil, errors.New("exec failed")
}

var (
	testDriverOnce sync.Once
	testDriverName = "mssql_test_err"
)

func openErrDB(t *testing.T) *sql.DB {
	t.Helper()
	testDriverOnce.Do(func() {
		sql.Register(testDriverName, &errDriver{})
	})
	db, err := sql.Open(testDriverName, "")
	if err != nil {
		t.Fatalf("sql.Open(%q) error = %v", testDriverName, err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// --- Tests ---

// TestCopyFromEmptyRows verifies CopyFrom short-circuits without touching
// the database.
func TestCopyFromEmptyRows(t *testing.T) {
	t.Parallel()

	r := &Repository{cfg: Config{Table: "dbo.songs"}}
	n, err := r.CopyFrom(context.Background(), []string{"song_id"}, nil)
	if err != nil || n != 0 {
		t.Fatalf("CopyFrom(nil) = %d, %v; want 0, nil", n, err)
	}
}

// TestExecPropagatesError verifies Exec forwards driver errors.
func TestExecPropagatesError(t *testing.T) {
	t.Parallel()

	r := &Repository{db: openErrDB(t), cfg: Config{Table: "dbo.songs"}}
	err := r.Exec(context.Background(), "SELECT 1")
	if err == nil || !strings.Contains(err.Error(), "exec failed") {
		t.Fatalf("Exec() error = %v, want exec failed", err)
	}
}

// TestCopyFromBeginTxError verifies CopyFrom surfaces BeginTx errors before
// any bulk-copy logic runs.
func TestCopyFromBeginTxError(t *testing.T) {
	t.Parallel()

	r := &Repository{db: openErrDB(t), cfg: Config{Table: "dbo.users"}}
	rows := [][]any{{"1", "Ann"}, {"2", "Bob"}}

	n, err := r.CopyFrom(context.Background(), []string{"user_id", "first_name"}, rows)
	if err == nil {
		t.Fatalf("CopyFrom() error = nil, want non-nil when BeginTx fails")
	}
	if n != 0 {
		t.Fatalf("CopyFrom() rows = %d, want 0 on error", n)
	}
	if !strings.Contains(err.Error(), "begin tx:") {
		t.Fatalf("CopyFrom() error = %q, want it wrapped with 'begin tx:'", err.Error())
	}
}

// TestDialect_GuardedCreate checks the OBJECT_ID guard and type mapping.
func TestDialect_GuardedCreate(t *testing.T) {
	t.Parallel()

	sql, err := Dialect.BuildCreateTableSQL(ddl.FromTable(Dialect, model.TimeTable, "dbo.time"))
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	for _, want := range []string{
		"IF OBJECT_ID(N'[dbo].[time]', N'U') IS NULL",
		"CREATE TABLE [dbo].[time] (",
		"[start_time] DATETIME2 NOT NULL",
		"[weekday] INT NOT NULL",
		"END;",
	} {
		if !strings.Contains(sql, want) {
			t.Fatalf("ddl missing %q:\n%s", want, sql)
		}
	}
	if strings.Contains(sql, "IF NOT EXISTS") {
		t.Fatalf("mssql ddl must not use IF NOT EXISTS:\n%s", sql)
	}
}

// TestNewRepository_BadDSN fails on DSN parsing before dialing.
func TestNewRepository_BadDSN(t *testing.T) {
	t.Parallel()

	if _, _, err := NewRepository(context.Background(), Config{DSN: "sqlserver://%zz"}); err == nil {
		t.Fatalf("expected DSN error")
	}
}

// TestRegistered checks the backend is wired into the storage registries.
func TestRegistered(t *testing.T) {
	if _, err := storage.DialectFor("mssql"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	found := false
	for _, k := range storage.ListKinds() {
		if k == "mssql" {
			found = true
		}
	}
	if !found {
		t.Fatalf("mssql not registered: %v", storage.ListKinds())
	}
}
