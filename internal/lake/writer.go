// Package lake writes table rows as partitioned Parquet directories in the
// layout Spark produces:
//
//	<table>/<table>.parquet/<col>=<val>/.../part-00000-<run>.c000.snappy.parquet
//	<table>/<table>.parquet/_SUCCESS
//
// Every write overwrites the table directory.
package lake

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/datasource"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/logging"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/metrics"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/model"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
	"golang.org/x/sync/errgroup"
)

// Options controls a table write. Zero values take defaults.
type Options struct {
	// Job labels metrics.
	Job string

	// RunID is embedded in part file names. Defaults to a fresh UUID.
	RunID string

	// Compression is snappy, gzip, zstd or uncompressed. Defaults to snappy.
	Compression string

	// RowsPerFile caps rows in one part file. <= 0 means unlimited.
	RowsPerFile int

	// Workers bounds concurrent part uploads. Defaults to 4.
	Workers int
}

// Result summarises one table write.
type Result struct {
	Table      string
	Rows       int64
	Files      int
	Bytes      int64
	Partitions int
	Deleted    int
	Elapsed    time.Duration
}

type codec struct {
	kind parquet.CompressionCodec
	ext  string
}

var codecs = map[string]codec{
	"snappy":       {parquet.CompressionCodec_SNAPPY, ".snappy.parquet"},
	"gzip":         {parquet.CompressionCodec_GZIP, ".gz.parquet"},
	"zstd":         {parquet.CompressionCodec_ZSTD, ".zstd.parquet"},
	"uncompressed": {parquet.CompressionCodec_UNCOMPRESSED, ".parquet"},
}

// Codecs lists the accepted Compression values.
func Codecs() []string {
	out := make([]string, 0, len(codecs))
	for k := range codecs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type part[F any] struct {
	key  string
	recs []F
}

// Write replaces table in store with rows. F is the parquet record type of
// the table and is usually given explicitly:
//
//	res, err := lake.Write[model.SongFile](ctx, out, model.SongsTable, songs, opt)
//
// An empty rows slice still clears the table and writes the success marker.
func Write[F any, R model.Row[F]](ctx context.Context, store datasource.Store, table model.Table, rows []R, opt Options) (Result, error) {
	start := time.Now()
	log := logging.Component("lake")

	if opt.Compression == "" {
		opt.Compression = "snappy"
	}
	c, ok := codecs[strings.ToLower(opt.Compression)]
	if !ok {
		return Result{}, fmt.Errorf("lake: %s: unknown compression %q", table.Name, opt.Compression)
	}
	if opt.RunID == "" {
		opt.RunID = uuid.NewString()
	}
	if opt.Workers <= 0 {
		opt.Workers = 4
	}

	parts, partitions := plan[F](table, rows, opt, c.ext)

	dir := table.Dir() + "/"
	deleted, err := store.DeletePrefix(ctx, dir)
	if err != nil {
		return Result{}, fmt.Errorf("lake: %s: clear %s: %w", table.Name, dir, err)
	}

	var written atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opt.Workers)
	for _, p := range parts {
		g.Go(func() error {
			data, err := encode(p.recs, c.kind)
			if err != nil {
				return fmt.Errorf("lake: %s: encode %s: %w", table.Name, p.key, err)
			}
			if err := store.Put(gctx, p.key, bytes.NewReader(data), int64(len(data))); err != nil {
				return fmt.Errorf("lake: %s: put %s: %w", table.Name, p.key, err)
			}
			written.Add(int64(len(data)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	if err := store.Put(ctx, dir+SuccessMarker, bytes.NewReader(nil), 0); err != nil {
		return Result{}, fmt.Errorf("lake: %s: write marker: %w", table.Name, err)
	}

	res := Result{
		Table:      table.Name,
		Rows:       int64(len(rows)),
		Files:      len(parts),
		Bytes:      written.Load(),
		Partitions: partitions,
		Deleted:    deleted,
		Elapsed:    time.Since(start),
	}
	metrics.RecordRows(opt.Job, table.Name, metrics.KindWritten, res.Rows)
	metrics.RecordFiles(opt.Job, table.Name, res.Files, res.Bytes)

	log.Debug().
		Str("table", table.Name).
		Str("dest", store.URI()+dir).
		Int64("rows", res.Rows).
		Int("files", res.Files).
		Int("partitions", res.Partitions).
		Int("replaced", deleted).
		Str("size", humanize.Bytes(uint64(res.Bytes))).
		Dur("elapsed", res.Elapsed).
		Msg("table written")
	return res, nil
}

// plan groups rows by partition directory and splits each group into part
// files. Part numbers follow sorted partition order so a rerun over the same
// rows produces the same names apart from the run id.
func plan[F any, R model.Row[F]](table model.Table, rows []R, opt Options, ext string) ([]part[F], int) {
	groups := map[string][]F{}
	var order []string
	for _, r := range rows {
		dir := PartitionPath(table.PartitionBy, r.Partition())
		if _, seen := groups[dir]; !seen {
			order = append(order, dir)
		}
		groups[dir] = append(groups[dir], r.File())
	}
	sort.Strings(order)

	// Unpartitioned tables always get one file so readers see the schema.
	if len(rows) == 0 && len(table.PartitionBy) == 0 {
		order = []string{""}
		groups[""] = nil
	}

	var parts []part[F]
	n := 0
	for _, dir := range order {
		recs := groups[dir]
		size := opt.RowsPerFile
		if size <= 0 || size > len(recs) {
			size = len(recs)
		}
		for off := 0; ; off += size {
			end := off + size
			if end > len(recs) {
				end = len(recs)
			}
			key := datasource.JoinKey(table.Dir(), dir, PartName(n, opt.RunID, ext))
			parts = append(parts, part[F]{key: key, recs: recs[off:end]})
			n++
			if end >= len(recs) {
				break
			}
		}
	}

	partitions := len(order)
	if len(table.PartitionBy) == 0 {
		partitions = 0
	}
	return parts, partitions
}

// encode renders recs as one Parquet file.
func encode[F any](recs []F, kind parquet.CompressionCodec) ([]byte, error) {
	var buf bytes.Buffer
	pw, err := writer.NewParquetWriterFromWriter(&buf, new(F), 1)
	if err != nil {
		return nil, fmt.Errorf("new writer: %w", err)
	}
	pw.CompressionType = kind
	for i := range recs {
		if err := pw.Write(recs[i]); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("finish: %w", err)
	}
	return buf.Bytes(), nil
}
