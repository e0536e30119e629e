package main

import (
	"context"
	"time"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/config"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/etl"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/metrics"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/warehouse"
)

// Stage names, used in metrics labels and failure logs.
const (
	stageSongData  = "process_song_data"
	stageLogData   = "process_log_data"
	stageIntegrity = "check_integrity"
	stageWarehouse = "load_warehouse"
)

// StageError wraps the error of the stage that stopped the job.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }
func (e *StageError) Unwrap() error { return e.Err }

// report is what a successful run produced.
type report struct {
	RunID     string
	Catalog   *etl.Catalog
	Events    *etl.Events
	Warehouse []warehouse.Result
}

// Test seams. In production these point to the real implementations.
var (
	newSessionFn    = etl.NewSession
	loadWarehouseFn = warehouse.Load
)

// runJob executes the stages in order: song data, log data, then the
// optional integrity check and warehouse load. The first failing required
// stage stops the job; tables written before it stay written.
func runJob(ctx context.Context, cfg config.Config, keys config.AccessKeys) (*report, error) {
	s, err := newSessionFn(ctx, cfg, keys)
	if err != nil {
		return nil, &StageError{Stage: "session", Err: err}
	}

	log := s.Logger()
	rep := &report{RunID: s.RunID}

	err = timed(cfg.Job, stageSongData, func() (err error) {
		rep.Catalog, err = etl.ProcessSongData(ctx, s)
		return err
	})
	if err != nil {
		return nil, &StageError{Stage: stageSongData, Err: err}
	}

	err = timed(cfg.Job, stageLogData, func() (err error) {
		rep.Events, err = etl.ProcessLogData(ctx, s)
		return err
	})
	if err != nil {
		return nil, &StageError{Stage: stageLogData, Err: err}
	}

	tables := etl.TablesOf(rep.Catalog, rep.Events)

	if cfg.Runtime.CheckIntegrity {
		ierr := timed(cfg.Job, stageIntegrity, func() error {
			return etl.CheckIntegrity(tables, etl.DefaultViolationLimit)
		})
		if ierr != nil {
			// Unmatched references are expected with a name join; report only.
			log.Warn().Err(ierr).Msg("integrity violations")
		} else {
			log.Info().Msg("integrity checks passed")
		}
	}

	if cfg.Warehouse.Enabled {
		err = timed(cfg.Job, stageWarehouse, func() (err error) {
			rep.Warehouse, err = loadWarehouseFn(ctx, cfg.Job, cfg.Warehouse, tables.Rows())
			return err
		})
		if err != nil {
			return nil, &StageError{Stage: stageWarehouse, Err: err}
		}
	}

	return rep, nil
}

// timed runs fn and records the stage outcome and duration.
func timed(job, stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStage(job, stage, err, time.Since(start))
	return err
}
