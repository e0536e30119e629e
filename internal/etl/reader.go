package etl

import (
	"context"
	"fmt"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/datasource"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/metrics"
	jsonparser "github.com/Ramanathantrb/Datalakes-with-spark/internal/parser/json"

	"golang.org/x/sync/errgroup"
)

// SourceFile is the decoded content of one input object. Corrupt lists the
// 1-based lines that did not decode and were skipped.
type SourceFile[T any] struct {
	Key     string
	Records []T
	Corrupt []int
}

// ReadJSON decodes every object matching pattern into records of type T.
// Lines that do not decode are skipped and listed in SourceFile.Corrupt.
// Files are read concurrently, at most workers at a time, and returned in
// sorted key order. No matching object is an error wrapping
// datasource.ErrNoMatch.
func ReadJSON[T any](ctx context.Context, store datasource.Store, pattern string, workers int) ([]SourceFile[T], error) {
	objs, err := datasource.Glob(ctx, store, pattern)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = 1
	}

	out := make([]SourceFile[T], len(objs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, o := range objs {
		g.Go(func() error {
			rc, err := store.Open(gctx, o.Key)
			if err != nil {
				return fmt.Errorf("read %s: %w", o.Key, err)
			}
			defer rc.Close()

			recs, corrupt, err := jsonparser.DecodeLines[T](rc, jsonparser.Options{AllowArrays: true})
			if err != nil {
				return fmt.Errorf("read %s: %w", o.Key, err)
			}
			out[i] = SourceFile[T]{Key: o.Key, Records: recs, Corrupt: corrupt}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Flatten concatenates the records of files in order.
func Flatten[T any](files []SourceFile[T]) []T {
	n := 0
	for _, f := range files {
		n += len(f.Records)
	}
	out := make([]T, 0, n)
	for _, f := range files {
		out = append(out, f.Records...)
	}
	return out
}

// reportCorrupt logs every file with skipped lines and counts them under
// source.
func reportCorrupt[T any](s *Session, source string, files []SourceFile[T]) {
	total := 0
	for _, f := range files {
		if len(f.Corrupt) == 0 {
			continue
		}
		total += len(f.Corrupt)
		s.log.Warn().
			Str("source", source).
			Str("key", f.Key).
			Ints("lines", f.Corrupt).
			Msg("skipped records that do not decode")
	}
	metrics.RecordRows(s.Opt.Job, source, metrics.KindCorrupt, int64(total))
}
