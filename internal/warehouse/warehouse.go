// Package warehouse copies the computed tables into a SQL database after the
// lake writes. Every load replaces the table contents: the table is created
// if missing, emptied, then filled in batches.
package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/config"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/ddl"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/logging"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/metrics"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/model"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/storage"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
)

// Result reports the load of one table.
type Result struct {
	Table   string
	Rows    int64
	Elapsed time.Duration
}

// Load writes rows, keyed by table name, into the warehouse described by cfg.
// Tables are loaded in model.Tables order; a table missing from rows is
// emptied. A failure on one table does not stop the others; the errors are
// returned together.
func Load(ctx context.Context, job string, cfg config.Warehouse, rows map[string][][]any) ([]Result, error) {
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("warehouse: batch_size must be > 0")
	}

	log := logging.Component("warehouse").With().Str("kind", cfg.Kind).Logger()
	var (
		results []Result
		errs    *multierror.Error
	)
	for _, table := range model.Tables() {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := loadTable(ctx, job, cfg, table, rows[table.Name])
		if err != nil {
			log.Error().Err(err).Str("table", table.Name).Msg("warehouse load failed")
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", table.Name, err))
			continue
		}
		log.Info().
			Str("table", res.Table).
			Int64("rows", res.Rows).
			Str("rows_h", humanize.Comma(res.Rows)).
			Dur("elapsed", res.Elapsed).
			Msg("warehouse table loaded")
		results = append(results, res)
	}
	return results, errs.ErrorOrNil()
}

func loadTable(ctx context.Context, job string, cfg config.Warehouse, table model.Table, rows [][]any) (Result, error) {
	// Stops the Feed goroutine when LoadBatches returns early.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	start := time.Now()
	fqn := ddl.TableName(cfg.Schema, table.Name)
	columns := table.ColumnNames()

	repo, err := storage.New(ctx, storage.Config{
		Kind:    cfg.Kind,
		DSN:     cfg.DSN,
		Table:   fqn,
		Columns: columns,
	})
	if err != nil {
		return Result{}, err
	}
	defer repo.Close()

	if err := storage.EnsureTable(ctx, cfg.Kind, repo, table, fqn); err != nil {
		return Result{}, err
	}
	if err := storage.ClearTable(ctx, cfg.Kind, repo, fqn); err != nil {
		return Result{}, err
	}

	n, err := storage.LoadBatches(ctx, columns, storage.Feed(ctx, rows), cfg.BatchSize, repo.CopyFrom)
	metrics.RecordRows(job, table.Name, metrics.KindLoaded, n)
	if err != nil {
		return Result{Table: table.Name, Rows: n}, err
	}
	return Result{Table: table.Name, Rows: n, Elapsed: time.Since(start)}, nil
}
