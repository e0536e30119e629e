// Package config provides configuration models and helpers for the ETL job.
//
// This file adds a lightweight linter for Config values. It performs static
// checks and returns a list of issues (errors and warnings) that callers can
// surface in a CLI (-validate) or tests.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/datasource"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/lake"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/storage"

	"github.com/bmatcuk/doublestar/v4"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that should be surfaced to users but
	// does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the config (e.g. "input.song_glob").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

var (
	knownDedup    = map[string]struct{}{DedupRow: {}, DedupKey: {}}
	knownJoinKeys = map[string]struct{}{JoinExact: {}, JoinFold: {}}
	knownMetrics  = map[string]struct{}{"none": {}, "": {}, "pushgateway": {}, "datadog": {}}
)

// ValidateConfig performs static validation of a Config. It does not touch
// the network or the filesystem.
func ValidateConfig(c Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels metrics and log lines",
		})
	}
	issues = append(issues, validateInput(c.Input)...)
	issues = append(issues, validateOutput(c.Output, c.Input)...)
	issues = append(issues, validateTransform(c.Transform)...)
	issues = append(issues, validateRuntime(c.Runtime)...)
	issues = append(issues, validateWarehouse(c.Warehouse)...)
	issues = append(issues, validateMetrics(c.Metrics)...)

	if (UsesS3(c.Input.URI) || UsesS3(c.Output.URI)) && strings.TrimSpace(c.S3.Region) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "s3.region",
			Message:  "no region set; the SDK default chain will be used",
		})
	}
	return issues
}

func validateInput(in Input) []Issue {
	var issues []Issue
	issues = append(issues, validateURI("input.uri", in.URI)...)

	globs := []struct{ path, val string }{
		{"input.song_glob", in.SongGlob},
		{"input.log_glob", in.LogGlob},
		{"input.join_song_glob", in.JoinSongGlob},
	}
	for _, g := range globs {
		if strings.TrimSpace(g.val) == "" {
			issues = append(issues, Issue{Severity: SeverityError, Path: g.path, Message: "glob must not be empty"})
			continue
		}
		if !doublestar.ValidatePattern(g.val) {
			issues = append(issues, Issue{Severity: SeverityError, Path: g.path, Message: fmt.Sprintf("invalid glob %q", g.val)})
		}
		if strings.HasPrefix(g.val, "/") {
			issues = append(issues, Issue{Severity: SeverityError, Path: g.path, Message: "glob must be relative to input.uri"})
		}
	}
	return issues
}

func validateOutput(out Output, in Input) []Issue {
	var issues []Issue
	issues = append(issues, validateURI("output.uri", out.URI)...)

	if c := strings.ToLower(strings.TrimSpace(out.Compression)); c != "" {
		if codecs := lake.Codecs(); !slices.Contains(codecs, c) {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "output.compression",
				Message:  fmt.Sprintf("unknown compression %q (want one of %s)", out.Compression, strings.Join(codecs, ", ")),
			})
		}
	}
	if strings.TrimSpace(out.URI) != "" && strings.TrimRight(out.URI, "/") == strings.TrimRight(in.URI, "/") {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "output.uri",
			Message:  "output.uri equals input.uri; table directories will sit next to the raw data",
		})
	}
	return issues
}

func validateTransform(t Transform) []Issue {
	var issues []Issue
	if strings.TrimSpace(t.PlayPage) == "" {
		issues = append(issues, Issue{Severity: SeverityError, Path: "transform.play_page", Message: "play_page must not be empty"})
	}
	for _, d := range []struct{ path, val string }{
		{"transform.users_dedup", t.UsersDedup},
		{"transform.artists_dedup", t.ArtistsDedup},
	} {
		if _, ok := knownDedup[d.val]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     d.path,
				Message:  fmt.Sprintf("unknown dedup policy %q (want %q or %q)", d.val, DedupRow, DedupKey),
			})
		}
	}
	if _, ok := knownJoinKeys[t.JoinKey]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "transform.join_key",
			Message:  fmt.Sprintf("unknown join key policy %q (want %q or %q)", t.JoinKey, JoinExact, JoinFold),
		})
	}
	return issues
}

func validateRuntime(r Runtime) []Issue {
	var issues []Issue
	check := func(path string, v int) {
		if v < 0 {
			issues = append(issues, Issue{Severity: SeverityError, Path: path, Message: "must be >= 0"})
		} else if v == 0 {
			issues = append(issues, Issue{Severity: SeverityWarning, Path: path, Message: "0 uses the built-in default"})
		}
	}
	check("runtime.read_workers", r.ReadWorkers)
	check("runtime.write_workers", r.WriteWorkers)
	check("runtime.rows_per_file", r.RowsPerFile)
	return issues
}

func validateWarehouse(w Warehouse) []Issue {
	if !w.Enabled {
		return nil
	}
	var issues []Issue
	if kinds := storage.ListKinds(); !slices.Contains(kinds, w.Kind) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "warehouse.kind",
			Message:  fmt.Sprintf("unknown warehouse kind %q (registered: %s)", w.Kind, strings.Join(kinds, ", ")),
		})
	}
	if strings.TrimSpace(w.DSN) == "" {
		issues = append(issues, Issue{Severity: SeverityError, Path: "warehouse.dsn", Message: "dsn must not be empty when the warehouse is enabled"})
	}
	if w.BatchSize <= 0 {
		issues = append(issues, Issue{Severity: SeverityError, Path: "warehouse.batch_size", Message: "batch_size must be > 0"})
	}
	if w.Kind == "sqlite" && strings.TrimSpace(w.Schema) != "" {
		issues = append(issues, Issue{Severity: SeverityWarning, Path: "warehouse.schema", Message: "sqlite has no schemas; table names will be prefixed as-is"})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue
	if _, ok := knownMetrics[m.Backend]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q (want none, pushgateway or datadog)", m.Backend),
		})
	}
	if m.Backend == "pushgateway" && strings.TrimSpace(m.PushgatewayURL) == "" {
		issues = append(issues, Issue{Severity: SeverityError, Path: "metrics.pushgateway_url", Message: "pushgateway backend needs a URL"})
	}
	return issues
}

func validateURI(path, uri string) []Issue {
	if strings.TrimSpace(uri) == "" {
		return []Issue{{Severity: SeverityError, Path: path, Message: "uri must not be empty"}}
	}
	loc, err := datasource.ParseURI(uri)
	switch {
	case errors.Is(err, datasource.ErrUnsupportedScheme):
		scheme, _, _ := strings.Cut(strings.TrimSpace(uri), "://")
		return []Issue{{Severity: SeverityError, Path: path, Message: fmt.Sprintf("unsupported scheme %q", scheme)}}
	case err != nil && UsesS3(uri):
		return []Issue{{Severity: SeverityError, Path: path, Message: "s3 uri needs a bucket"}}
	case err != nil:
		return []Issue{{Severity: SeverityError, Path: path, Message: err.Error()}}
	}
	if !slices.Contains(datasource.Schemes(), loc.Scheme) {
		return []Issue{{Severity: SeverityError, Path: path, Message: fmt.Sprintf("unsupported scheme %q (no store registered)", loc.Scheme)}}
	}
	return nil
}

// UsesS3 reports whether uri names an S3 location (s3:// or s3a://).
func UsesS3(uri string) bool {
	u := strings.ToLower(strings.TrimSpace(uri))
	return strings.HasPrefix(u, "s3://") || strings.HasPrefix(u, "s3a://")
}
