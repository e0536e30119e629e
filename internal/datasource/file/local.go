// Package file implements a local filesystem-backed datasource.Store.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/datasource"
)

func init() {
	datasource.Register("file", func(ctx context.Context, loc datasource.Location, _ datasource.Options) (datasource.Store, error) {
		return NewLocal(loc.Path), nil
	})
}

// Local is a Store rooted at a directory. It is safe for concurrent use as
// long as callers do not write the same key from two goroutines.
type Local struct{ root string }

// NewLocal returns a Local store rooted at dir. The directory does not need
// to exist until the first Put.
func NewLocal(dir string) *Local { return &Local{root: filepath.Clean(dir)} }

// URI implements datasource.Store.
func (l *Local) URI() string {
	return datasource.Location{Scheme: "file", Path: l.root}.String()
}

func (l *Local) path(key string) string {
	return filepath.Join(l.root, filepath.FromSlash(key))
}

// List walks the directory that contains prefix and returns regular files
// whose slash-separated relative path starts with prefix.
func (l *Local) List(ctx context.Context, prefix string) ([]datasource.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := l.root
	if i := strings.LastIndex(prefix, "/"); i >= 0 {
		start = l.path(prefix[:i])
	}

	var out []datasource.Object
	err := filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == start {
				return fs.SkipAll
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, datasource.Object{Key: key, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", start, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Open opens key for reading.
//
// If ctx is already done, Open returns ctx.Err() without touching the
// filesystem. A missing file yields an error matching both
// datasource.ErrNotFound and os.ErrNotExist.
func (l *Local) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	p := l.path(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w: %w", p, datasource.ErrNotFound, err)
		}
		return nil, fmt.Errorf("open %s: %w", p, err)
	}
	return f, nil
}

// Put writes to a temporary sibling and renames it into place so readers
// never observe a partial file.
func (l *Local) Put(ctx context.Context, key string, r io.Reader, _ int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p := l.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("put %s: %w", p, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".tmp-"+filepath.Base(p)+"-*")
	if err != nil {
		return fmt.Errorf("put %s: %w", p, err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("put %s: write: %w", p, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("put %s: close: %w", p, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("put %s: rename: %w", p, err)
	}
	return nil
}

// DeletePrefix removes the matching files. When prefix names a directory
// ("table/" style), the emptied directory tree is removed as well.
func (l *Local) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	objs, err := l.List(ctx, prefix)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, o := range objs {
		if err := os.Remove(l.path(o.Key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return n, fmt.Errorf("delete %s: %w", o.Key, err)
		}
		n++
	}
	if strings.HasSuffix(prefix, "/") {
		if err := os.RemoveAll(l.path(prefix)); err != nil {
			return n, fmt.Errorf("delete %s: %w", prefix, err)
		}
	}
	return n, nil
}
