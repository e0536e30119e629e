// Command etl builds the Sparkify data lake: it reads the song catalog and
// the event logs, derives the songs, artists, users, time and songplays
// tables and writes them as partitioned Parquet. With no flags it reads
// s3://udacity-dend/ and writes s3://datalake.ram/ using the keys in dl.cfg.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/config"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/logging"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/metrics"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/metrics/datadog"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/metrics/prompush"

	// Object-store connectors (file, s3) and warehouse backends register
	// themselves; config picks which one runs.
	_ "github.com/Ramanathantrb/Datalakes-with-spark/internal/datasource/all"
	_ "github.com/Ramanathantrb/Datalakes-with-spark/internal/storage/all"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// run parses args, loads configuration and executes the job. It returns the
// process exit code.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("etl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath        string
		credPath       string
		metricsBackend string
		pushGatewayURL string
		validate       bool
		verbose        bool
	)
	fs.StringVar(&cfgPath, "config", "", "job config file (.yaml, .yml or .json); defaults read s3://udacity-dend/ and write s3://datalake.ram/")
	fs.StringVar(&credPath, "credentials", "", "INI credentials file (overrides credentials.file)")
	fs.StringVar(&metricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway or datadog (overrides metrics.backend)")
	fs.StringVar(&pushGatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides metrics.pushgateway_url)")
	fs.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	fs.BoolVar(&verbose, "v", false, "enable debug logs")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	if credPath != "" {
		cfg.Credentials.File = credPath
	}
	if metricsBackend != "" {
		cfg.Metrics.Backend = metricsBackend
	}
	if pushGatewayURL != "" {
		cfg.Metrics.PushgatewayURL = pushGatewayURL
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if cfg.Logging.Output == nil {
		cfg.Logging.Output = stderr
	}
	logging.Init(cfg.Logging)
	log := logging.Component("main")

	issues := config.ValidateConfig(cfg)
	for _, iss := range issues {
		fmt.Fprintf(stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Error().Str("config", cfgPath).Msg("configuration is invalid")
		return 1
	}
	if validate {
		log.Info().Str("config", cfgPath).Msg("configuration is valid")
		return 0
	}

	keys, err := loadKeys(cfg)
	if err != nil {
		log.Error().Err(err).Str("stage", "credentials").Msg("job failed")
		return 1
	}

	flush := setupMetrics(cfg)
	defer flush()

	start := time.Now()
	rep, err := runJob(ctx, cfg, keys)
	if err != nil {
		var se *StageError
		stage := "unknown"
		if errors.As(err, &se) {
			stage = se.Stage
		}
		log.Error().Err(err).Str("stage", stage).Msg("job failed")
		return 1
	}
	log.Info().
		Str("run_id", rep.RunID).
		Dur("elapsed", time.Since(start).Truncate(time.Millisecond)).
		Msg("job completed")
	return 0
}

// loadKeys reads the credentials file. A missing file is fine when neither
// store is on S3; the S3 connector then uses its default provider chain.
func loadKeys(cfg config.Config) (config.AccessKeys, error) {
	keys, err := config.LoadCredentials(cfg.Credentials)
	if err == nil {
		return keys, nil
	}
	if errors.Is(err, config.ErrNoCredentials) && !config.UsesS3(cfg.Input.URI) && !config.UsesS3(cfg.Output.URI) {
		log := logging.Component("main")
		log.Debug().Str("file", cfg.Credentials.File).Msg("no credentials file; local stores only")
		return config.AccessKeys{}, nil
	}
	return config.AccessKeys{}, err
}

// setupMetrics installs the configured metrics backend and returns the
// function that flushes it at exit. Backend errors fall back to the nop
// backend; metrics never fail the job.
func setupMetrics(cfg config.Config) func() {
	log := logging.Component("metrics")

	var (
		b   metrics.Backend
		err error
	)
	switch cfg.Metrics.Backend {
	case "pushgateway":
		b, err = prompush.NewBackend(cfg.Job, cfg.Metrics.PushgatewayURL)
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       cfg.Metrics.DatadogAddr,
			GlobalTags: []string{"job:" + cfg.Job},
		})
	case "", "none":
		log.Debug().Msg("metrics disabled")
		return func() {}
	default:
		log.Warn().Str("backend", cfg.Metrics.Backend).Msg("unknown metrics backend; metrics disabled")
		return func() {}
	}
	if err != nil {
		log.Warn().Err(err).Str("backend", cfg.Metrics.Backend).Msg("metrics backend init failed; using nop")
		return func() {}
	}

	log.Info().Str("backend", cfg.Metrics.Backend).Str("job", cfg.Job).Msg("metrics enabled")
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Warn().Err(err).Msg("metrics flush failed")
		}
	}
}
