// Package datasource defines the object-store contract used to read raw JSON
// and write lake tables, plus URI parsing, a scheme registry and glob
// matching over store keys.
//
// A Store is rooted at a location (a local directory, or an S3 bucket plus
// prefix). Keys passed to and returned from a Store are relative to that
// root and always use '/' as the separator.
package datasource

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotFound is returned by Open for a missing key.
	ErrNotFound = errors.New("object not found")

	// ErrNoMatch is returned by Glob when a pattern selects no objects.
	ErrNoMatch = errors.New("no objects match pattern")

	// ErrUnsupportedScheme is returned by Open for unregistered URI schemes.
	ErrUnsupportedScheme = errors.New("unsupported uri scheme")
)

// Object describes one stored object.
type Object struct {
	Key  string
	Size int64
}

// Store is a minimal object store.
type Store interface {
	// List returns every object whose key starts with prefix, sorted by key.
	List(ctx context.Context, prefix string) ([]Object, error)

	// Open returns a reader for key. A missing key yields an error that
	// matches ErrNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Put writes size bytes from r to key, replacing any existing object.
	Put(ctx context.Context, key string, r io.Reader, size int64) error

	// DeletePrefix removes every object whose key starts with prefix and
	// returns the number removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	// URI is the store root, for logs.
	URI() string
}
