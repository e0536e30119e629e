package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/ddl"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/model"
)

var (
	ddlMu    sync.RWMutex
	dialects = map[string]ddl.Dialect{}
)

// RegisterDialect registers (or replaces) the SQL dialect for kind. Backend
// packages call it from init next to Register.
func RegisterDialect(kind string, d ddl.Dialect) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	dialects[kind] = d
}

// DialectFor returns the dialect registered for kind.
func DialectFor(kind string) (ddl.Dialect, error) {
	ddlMu.RLock()
	d, ok := dialects[kind]
	ddlMu.RUnlock()
	if !ok {
		return ddl.Dialect{}, fmt.Errorf("no dialect registered for storage.kind=%q", kind)
	}
	return d, nil
}

// EnsureTable creates fqn with the columns of table unless it exists.
func EnsureTable(ctx context.Context, kind string, repo Repository, table model.Table, fqn string) error {
	d, err := DialectFor(kind)
	if err != nil {
		return err
	}
	stmt, err := d.BuildCreateTableSQL(ddl.FromTable(d, table, fqn))
	if err != nil {
		return fmt.Errorf("build ddl: %w", err)
	}
	if err := repo.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("apply ddl %s: %w", fqn, err)
	}
	return nil
}

// ClearTable deletes every row of fqn.
func ClearTable(ctx context.Context, kind string, repo Repository, fqn string) error {
	d, err := DialectFor(kind)
	if err != nil {
		return err
	}
	if err := repo.Exec(ctx, d.DeleteAllSQL(fqn)); err != nil {
		return fmt.Errorf("clear %s: %w", fqn, err)
	}
	return nil
}
