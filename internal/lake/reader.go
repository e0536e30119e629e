package lake

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/datasource"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/model"

	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/reader"
)

// Part is one part file read back from a table directory.
type Part[F any] struct {
	Key       string
	Partition map[string]string
	Records   []F
}

// ReadTable reads every part file of table from store, in key order. The
// success marker is required; a table without it was not fully written.
func ReadTable[F any](ctx context.Context, store datasource.Store, table model.Table) ([]Part[F], error) {
	dir := table.Dir() + "/"
	objs, err := store.List(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("lake: %s: list: %w", table.Name, err)
	}

	var (
		parts  []Part[F]
		marked bool
	)
	for _, o := range objs {
		rel := strings.TrimPrefix(o.Key, dir)
		if rel == SuccessMarker {
			marked = true
			continue
		}
		if !strings.HasSuffix(rel, ".parquet") {
			continue
		}
		recs, err := ReadFile[F](ctx, store, o.Key)
		if err != nil {
			return nil, err
		}
		parts = append(parts, Part[F]{
			Key:       o.Key,
			Partition: ParsePartitionPath(rel),
			Records:   recs,
		})
	}
	if !marked {
		return nil, fmt.Errorf("lake: %s: %w", table.Name, ErrIncomplete)
	}
	return parts, nil
}

// ReadFile decodes a single Parquet object into records of type F.
func ReadFile[F any](ctx context.Context, store datasource.Store, key string) ([]F, error) {
	rc, err := store.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("lake: open %s: %w", key, err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("lake: read %s: %w", key, err)
	}

	pf := buffer.NewBufferFileFromBytes(data)
	pr, err := reader.NewParquetReader(pf, new(F), 1)
	if err != nil {
		return nil, fmt.Errorf("lake: decode %s: %w", key, err)
	}
	defer pr.ReadStop()

	n := int(pr.GetNumRows())
	recs := make([]F, n)
	if n > 0 {
		if err := pr.Read(&recs); err != nil {
			return nil, fmt.Errorf("lake: decode %s: %w", key, err)
		}
	}
	return recs, nil
}
