// Package storage defines the warehouse repository contract, a registry of
// backend factories and SQL dialects keyed by storage kind, and the batched
// loader that streams rows into a repository.
//
// Backends register themselves from init; import internal/storage/all to
// link every backend into a binary.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Repository is a bulk-insert target for one table.
type Repository interface {
	// CopyFrom inserts rows aligned to columns and returns the number of
	// rows written.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)
	// Exec runs a single statement, typically DDL.
	Exec(ctx context.Context, sql string) error
	// Close releases the connection pool.
	Close()
}

// Config selects a backend and the table it writes to.
type Config struct {
	Kind       string   // postgres, sqlite, mssql, mysql, duckdb
	DSN        string   // driver connection string
	Table      string   // target table, optionally schema-qualified
	Columns    []string // ordered insert columns
	KeyColumns []string // natural key, informational
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds, sorted. The slice is a copy.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
