package file

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/datasource"
)

// seed writes files (slash-separated keys) under dir.
func seed(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for k, v := range files {
		p := filepath.Join(dir, filepath.FromSlash(k))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(v), 0o644); err != nil {
			t.Fatalf("write test file: %v", err)
		}
	}
}

func keys(objs []datasource.Object) []string {
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = o.Key
	}
	return out
}

// TestLocalOpen covers success, missing file, and pre-canceled context.
// Table-driven to make behavior clear and extensible.
func TestLocalOpen(t *testing.T) {
	t.Parallel()

	type tc struct {
		name        string
		key         string
		makeCtx     func(t *testing.T) context.Context
		wantErrIs   []error // all checked via errors.Is
		wantContent string
	}

	dir := t.TempDir()
	seed(t, dir, map[string]string{"a/data.txt": "hello\nworld"})
	store := NewLocal(dir)

	cases := []tc{
		{
			name:        "success_reads_content",
			key:         "a/data.txt",
			makeCtx:     func(t *testing.T) context.Context { return context.Background() },
			wantContent: "hello\nworld",
		},
		{
			name:      "missing_file_errors_with_wrapping",
			key:       "a/missing.txt",
			makeCtx:   func(t *testing.T) context.Context { return context.Background() },
			wantErrIs: []error{datasource.ErrNotFound, os.ErrNotExist},
		},
		{
			name: "pre_canceled_context_short_circuits",
			key:  "a/data.txt",
			makeCtx: func(t *testing.T) context.Context {
				t.Helper()
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantErrIs: []error{context.Canceled},
		},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			rc, err := store.Open(c.makeCtx(t), c.key)

			if len(c.wantErrIs) > 0 {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				for _, want := range c.wantErrIs {
					if !errors.Is(err, want) {
						t.Fatalf("errors.Is(%v, %v) = false", err, want)
					}
				}
				if rc != nil {
					_ = rc.Close()
					t.Fatalf("got non-nil ReadCloser on error: %T", rc)
				}
				return
			}

			if err != nil {
				t.Fatalf("Open() unexpected error: %v", err)
			}
			defer rc.Close()

			got, rerr := io.ReadAll(rc)
			if rerr != nil {
				t.Fatalf("reading: %v", rerr)
			}
			if string(got) != c.wantContent {
				t.Fatalf("content mismatch: got %q, want %q", string(got), c.wantContent)
			}
		})
	}
}

/*
TestLocalList_PrefixSemantics verifies that List filters by key prefix (not
only by directory), returns sorted slash keys, and tolerates a missing
starting directory.
*/
func TestLocalList_PrefixSemantics(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	seed(t, dir, map[string]string{
		"song_data/A/B/C/TRB.json": "{}",
		"song_data/A/A/A/TRA.json": "{}",
		"song_data/readme.txt":     "x",
		"log_data/2018/11/e.json":  "{}",
	})
	s := NewLocal(dir)
	ctx := context.Background()

	got, err := s.List(ctx, "song_data/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"song_data/A/A/A/TRA.json", "song_data/A/B/C/TRB.json", "song_data/readme.txt"}
	if !reflect.DeepEqual(keys(got), want) {
		t.Fatalf("keys = %v, want %v", keys(got), want)
	}

	got, err = s.List(ctx, "song_data/A/A")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !reflect.DeepEqual(keys(got), []string{"song_data/A/A/A/TRA.json"}) {
		t.Fatalf("partial prefix keys = %v", keys(got))
	}

	got, err = s.List(ctx, "nope/")
	if err != nil || len(got) != 0 {
		t.Fatalf("missing dir: got %v, %v", got, err)
	}
}

/*
TestLocalPutAndDeletePrefix verifies that Put creates parent directories and
replaces existing content, and that DeletePrefix removes a whole table
directory while leaving siblings alone.
*/
func TestLocalPutAndDeletePrefix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := NewLocal(dir)
	ctx := context.Background()

	put := func(key, body string) {
		t.Helper()
		if err := s.Put(ctx, key, strings.NewReader(body), int64(len(body))); err != nil {
			t.Fatalf("Put %s: %v", key, err)
		}
	}
	put("songs/songs.parquet/year=2000/part-0.parquet", "old")
	put("songs/songs.parquet/year=2000/part-0.parquet", "new")
	put("songs/songs.parquet/_SUCCESS", "")
	put("artists/artists.parquet/part-0.parquet", "a")

	b, err := os.ReadFile(filepath.Join(dir, "songs", "songs.parquet", "year=2000", "part-0.parquet"))
	if err != nil || string(b) != "new" {
		t.Fatalf("read back = %q, %v", b, err)
	}

	n, err := s.DeletePrefix(ctx, "songs/songs.parquet/")
	if err != nil {
		t.Fatalf("DeletePrefix: %v", err)
	}
	if n != 2 {
		t.Fatalf("deleted %d, want 2", n)
	}
	if _, err := os.Stat(filepath.Join(dir, "songs", "songs.parquet")); !os.IsNotExist(err) {
		t.Fatalf("table dir still present: %v", err)
	}
	rest, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !reflect.DeepEqual(keys(rest), []string{"artists/artists.parquet/part-0.parquet"}) {
		t.Fatalf("remaining = %v", keys(rest))
	}
}

// TestRegistered verifies the file scheme is reachable through datasource.Open.
func TestRegistered(t *testing.T) {
	dir := t.TempDir()
	s, err := datasource.Open(context.Background(), "file://"+filepath.ToSlash(dir), datasource.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := s.(*Local); !ok {
		t.Fatalf("store = %T, want *Local", s)
	}
}
