// Package etl derives the five Sparkify lake tables from the raw song
// catalog and event logs and writes them as Parquet.
//
// A run is two stages over one Session:
//
//	s, err := etl.NewSession(ctx, cfg, keys)
//	cat, err := etl.ProcessSongData(ctx, s)  // songs, artists
//	ev, err := etl.ProcessLogData(ctx, s)    // users, time, songplays
//
// The Build* functions hold the table derivations and do no I/O.
package etl

import (
	"context"
	"fmt"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/config"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/datasource"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/lake"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/logging"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Options are the derivation and I/O settings of a run.
type Options struct {
	Job string

	SongGlob     string
	LogGlob      string
	JoinSongGlob string

	PlayPage     string
	UsersDedup   string
	ArtistsDedup string
	JoinKey      string

	ReadWorkers int
	Lake        lake.Options
}

// OptionsFromConfig maps the job configuration onto Options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Job:          cfg.Job,
		SongGlob:     cfg.Input.SongGlob,
		LogGlob:      cfg.Input.LogGlob,
		JoinSongGlob: cfg.Input.JoinSongGlob,
		PlayPage:     cfg.Transform.PlayPage,
		UsersDedup:   cfg.Transform.UsersDedup,
		ArtistsDedup: cfg.Transform.ArtistsDedup,
		JoinKey:      cfg.Transform.JoinKey,
		ReadWorkers:  cfg.Runtime.ReadWorkers,
		Lake: lake.Options{
			Job:         cfg.Job,
			Compression: cfg.Output.Compression,
			RowsPerFile: cfg.Runtime.RowsPerFile,
			Workers:     cfg.Runtime.WriteWorkers,
		},
	}
}

// Session carries the input and output stores and the settings shared by
// both stages of a run.
type Session struct {
	In    datasource.Store
	Out   datasource.Store
	RunID string
	Opt   Options

	log zerolog.Logger
}

// NewSession opens the input and output stores named by cfg. keys are
// passed to the object-store connector as-is; they may be empty for local
// paths or when the connector should use its default provider chain.
func NewSession(ctx context.Context, cfg config.Config, keys config.AccessKeys) (*Session, error) {
	opt := datasource.Options{
		Region:          cfg.S3.Region,
		Endpoint:        cfg.S3.Endpoint,
		PathStyle:       cfg.S3.PathStyle,
		AccessKeyID:     keys.AccessKeyID,
		SecretAccessKey: keys.SecretAccessKey,
		SessionToken:    keys.SessionToken,
	}

	in, err := datasource.Open(ctx, cfg.Input.URI, opt)
	if err != nil {
		return nil, fmt.Errorf("session: input: %w", err)
	}
	out, err := datasource.Open(ctx, cfg.Output.URI, opt)
	if err != nil {
		return nil, fmt.Errorf("session: output: %w", err)
	}
	return NewSessionWithStores(in, out, OptionsFromConfig(cfg)), nil
}

// NewSessionWithStores builds a Session over already opened stores.
func NewSessionWithStores(in, out datasource.Store, opt Options) *Session {
	runID := opt.Lake.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	opt.Lake.RunID = runID
	if opt.Lake.Job == "" {
		opt.Lake.Job = opt.Job
	}

	s := &Session{
		In:    in,
		Out:   out,
		RunID: runID,
		Opt:   opt,
	}
	s.log = logging.Component("etl").With().
		Str("run_id", runID).
		Str("input", in.URI()).
		Str("output", out.URI()).
		Logger()
	return s
}

// Logger returns the session logger.
func (s *Session) Logger() zerolog.Logger { return s.log }
