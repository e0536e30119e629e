package config

import (
	"strings"
	"testing"

	_ "github.com/Ramanathantrb/Datalakes-with-spark/internal/datasource/all"
	_ "github.com/Ramanathantrb/Datalakes-with-spark/internal/storage/sqlite"
)

// hasIssue reports whether issues contains an Issue with the given severity,
// path, and a Message containing msgSubstr.
func hasIssue(t *testing.T, issues []Issue, sev IssueSeverity, path, msgSubstr string) bool {
	t.Helper()
	for _, iss := range issues {
		if iss.Severity == sev && iss.Path == path && strings.Contains(iss.Message, msgSubstr) {
			return true
		}
	}
	return false
}

/*
TestValidateConfig_Defaults verifies that the default configuration is clean:
no errors and no warnings.
*/
func TestValidateConfig_Defaults(t *testing.T) {
	if issues := ValidateConfig(Default()); len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

/*
TestValidateConfig_Errors walks the individual checks. Each case mutates the
defaults and expects one specific issue.
*/
func TestValidateConfig_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		sev    IssueSeverity
		path   string
		msg    string
	}{
		{"empty job", func(c *Config) { c.Job = " " }, SeverityError, "job", "must not be empty"},
		{"empty input", func(c *Config) { c.Input.URI = "" }, SeverityError, "input.uri", "must not be empty"},
		{"bad scheme", func(c *Config) { c.Input.URI = "gs://bucket/" }, SeverityError, "input.uri", "unsupported scheme"},
		{"no bucket", func(c *Config) { c.Output.URI = "s3a://" }, SeverityError, "output.uri", "needs a bucket"},
		{"bad glob", func(c *Config) { c.Input.LogGlob = "log_data/[a" }, SeverityError, "input.log_glob", "invalid glob"},
		{"absolute glob", func(c *Config) { c.Input.SongGlob = "/song_data/*.json" }, SeverityError, "input.song_glob", "relative"},
		{"compression", func(c *Config) { c.Output.Compression = "lz4" }, SeverityError, "output.compression", "unknown compression"},
		{"compression none", func(c *Config) { c.Output.Compression = "none" }, SeverityError, "output.compression", "want one of"},
		{"same uri", func(c *Config) { c.Output.URI = "s3://udacity-dend" }, SeverityWarning, "output.uri", "equals input.uri"},
		{"dedup", func(c *Config) { c.Transform.UsersDedup = "latest" }, SeverityError, "transform.users_dedup", "unknown dedup policy"},
		{"join key", func(c *Config) { c.Transform.JoinKey = "soundex" }, SeverityError, "transform.join_key", "unknown join key"},
		{"play page", func(c *Config) { c.Transform.PlayPage = "" }, SeverityError, "transform.play_page", "must not be empty"},
		{"negative workers", func(c *Config) { c.Runtime.ReadWorkers = -1 }, SeverityError, "runtime.read_workers", ">= 0"},
		{"zero rows per file", func(c *Config) { c.Runtime.RowsPerFile = 0 }, SeverityWarning, "runtime.rows_per_file", "default"},
		{"warehouse kind", func(c *Config) {
			c.Warehouse = Warehouse{Enabled: true, Kind: "oracle", DSN: "x", BatchSize: 10}
		}, SeverityError, "warehouse.kind", "unknown warehouse kind"},
		{"warehouse kind not linked", func(c *Config) {
			c.Warehouse = Warehouse{Enabled: true, Kind: "postgres", DSN: "x", BatchSize: 10}
		}, SeverityError, "warehouse.kind", "registered: sqlite"},
		{"warehouse dsn", func(c *Config) {
			c.Warehouse = Warehouse{Enabled: true, Kind: "sqlite", BatchSize: 10}
		}, SeverityError, "warehouse.dsn", "must not be empty"},
		{"pushgateway url", func(c *Config) { c.Metrics.Backend = "pushgateway" }, SeverityError, "metrics.pushgateway_url", "needs a URL"},
		{"metrics backend", func(c *Config) { c.Metrics.Backend = "statsd" }, SeverityError, "metrics.backend", "unknown metrics backend"},
		{"region", func(c *Config) { c.S3.Region = "" }, SeverityWarning, "s3.region", "no region"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mutate(&c)
			issues := ValidateConfig(c)
			if !hasIssue(t, issues, tc.sev, tc.path, tc.msg) {
				t.Fatalf("want %s at %s containing %q; got %+v", tc.sev, tc.path, tc.msg, issues)
			}
		})
	}
}

// TestValidateConfig_LocalPaths accepts bare paths and file:// URIs.
func TestValidateConfig_LocalPaths(t *testing.T) {
	c := Default()
	c.Input.URI = "./testdata/raw"
	c.Output.URI = "file:///tmp/lake"
	if issues := ValidateConfig(c); HasErrors(issues) {
		t.Fatalf("unexpected errors: %+v", issues)
	}
}

// TestValidateConfig_Codecs accepts every codec the lake writer knows, in
// any case.
func TestValidateConfig_Codecs(t *testing.T) {
	for _, codec := range []string{"snappy", "gzip", "zstd", "uncompressed", "ZSTD"} {
		c := Default()
		c.Output.Compression = codec
		if issues := ValidateConfig(c); hasIssue(t, issues, SeverityError, "output.compression", "") {
			t.Fatalf("%s rejected: %+v", codec, issues)
		}
	}
}

// TestValidateConfig_SQLiteWarehouse accepts a linked warehouse kind.
func TestValidateConfig_SQLiteWarehouse(t *testing.T) {
	c := Default()
	c.Warehouse = Warehouse{Enabled: true, Kind: "sqlite", DSN: "sparkify.db", BatchSize: 500}
	if issues := ValidateConfig(c); HasErrors(issues) {
		t.Fatalf("unexpected errors: %+v", issues)
	}
}

// TestIssue_Error checks the error rendering.
func TestIssue_Error(t *testing.T) {
	iss := Issue{Severity: SeverityError, Path: "job", Message: "boom"}
	if got, want := iss.Error(), "error at job: boom"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
