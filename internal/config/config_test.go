package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeFile drops content into dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

/*
TestLoad_DefaultsOnly verifies that Load with no file returns the defaults of
the stock S3 run.
*/
func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Input.URI != "s3://udacity-dend/" || cfg.Output.URI != "s3://datalake.ram/" {
		t.Fatalf("uris = %q, %q", cfg.Input.URI, cfg.Output.URI)
	}
	if cfg.Input.JoinSongGlob != "song_data/A/A/A/*.json" {
		t.Fatalf("join glob = %q", cfg.Input.JoinSongGlob)
	}
	if cfg.Transform.UsersDedup != DedupRow || cfg.Transform.JoinKey != JoinExact {
		t.Fatalf("transform = %+v", cfg.Transform)
	}
	if cfg.Runtime.ReadWorkers != 8 || cfg.Warehouse.BatchSize != 5000 {
		t.Fatalf("runtime/warehouse = %+v / %+v", cfg.Runtime, cfg.Warehouse)
	}
}

/*
TestLoad_YAMLThenEnv verifies the layering order: a YAML file overrides the
defaults and ETL_* environment variables override the file.
*/
func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "job.yaml", `
job: nightly
input:
  uri: file:///data/raw
  join_song_glob: song_data/*/*/*/*.json
output:
  uri: /data/lake
transform:
  users_dedup: key
runtime:
  read_workers: 2
`)
	t.Setenv("ETL_RUNTIME__READ_WORKERS", "16")
	t.Setenv("ETL_WAREHOUSE__ENABLED", "true")

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Job != "nightly" || cfg.Input.URI != "file:///data/raw" || cfg.Output.URI != "/data/lake" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Input.JoinSongGlob != "song_data/*/*/*/*.json" {
		t.Fatalf("join glob = %q", cfg.Input.JoinSongGlob)
	}
	if cfg.Input.SongGlob != "song_data/*/*/*/*.json" || cfg.Input.LogGlob != "log_data/*/*/*.json" {
		t.Fatalf("defaults lost: %+v", cfg.Input)
	}
	if cfg.Transform.UsersDedup != DedupKey || cfg.Transform.ArtistsDedup != DedupRow {
		t.Fatalf("transform = %+v", cfg.Transform)
	}
	if cfg.Runtime.ReadWorkers != 16 {
		t.Fatalf("read_workers = %d, want env override 16", cfg.Runtime.ReadWorkers)
	}
	if !cfg.Warehouse.Enabled {
		t.Fatalf("warehouse.enabled env override not applied")
	}
}

// TestLoad_JSONFile verifies that .json config files use the JSON parser.
func TestLoad_JSONFile(t *testing.T) {
	p := writeFile(t, t.TempDir(), "job.json", `{"output": {"compression": "gzip"}, "s3": {"path_style": true}}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Compression != "gzip" || !cfg.S3.PathStyle {
		t.Fatalf("cfg = %+v / %+v", cfg.Output, cfg.S3)
	}
}

// TestLoad_UnknownExtension rejects files the loader cannot parse.
func TestLoad_UnknownExtension(t *testing.T) {
	p := writeFile(t, t.TempDir(), "job.toml", `job = "x"`)
	if _, err := Load(p); err == nil {
		t.Fatalf("expected error for .toml")
	}
}

/*
TestLoadCredentials covers the dl.cfg format: a section header, keys in any
case, comments and optional quoting.
*/
func TestLoadCredentials(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "dl.cfg", `
; credentials for the lake
[AWS]
AWS_ACCESS_KEY_ID = AKIAEXAMPLE
aws_secret_access_key="s3cr3t"
# no session token
`)
	keys, err := LoadCredentials(Credentials{File: p, Section: "AWS"})
	if err != nil {
		t.Fatalf("LoadCredentials: %v", err)
	}
	if keys.AccessKeyID != "AKIAEXAMPLE" || keys.SecretAccessKey != "s3cr3t" || keys.SessionToken != "" {
		t.Fatalf("keys = %+v", keys)
	}
}

// TestLoadCredentials_Errors covers the missing file, section and key cases.
func TestLoadCredentials_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadCredentials(Credentials{File: filepath.Join(dir, "missing.cfg"), Section: "AWS"})
	if !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("missing file err = %v, want ErrNoCredentials", err)
	}

	other := writeFile(t, dir, "other.cfg", "[GCP]\nKEY=1\n")
	if _, err := LoadCredentials(Credentials{File: other, Section: "AWS"}); err == nil {
		t.Fatalf("expected error for missing section")
	}

	partial := writeFile(t, dir, "partial.cfg", "[AWS]\nAWS_ACCESS_KEY_ID=x\n")
	if _, err := LoadCredentials(Credentials{File: partial, Section: "AWS"}); err == nil {
		t.Fatalf("expected error for missing secret")
	}
}

// TestINIParser_RoundTrip checks Marshal output parses back to the same map,
// including values holding comment characters.
func TestINIParser_RoundTrip(t *testing.T) {
	p := INI()
	in := map[string]interface{}{
		"aws": map[string]interface{}{"aws_access_key_id": "a", "aws_secret_access_key": "b#c;d"},
	}
	b, err := p.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	out, err := p.Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	sec, ok := out["aws"].(map[string]interface{})
	if !ok || sec["aws_access_key_id"] != "a" || sec["aws_secret_access_key"] != "b#c;d" {
		t.Fatalf("round trip = %v", out)
	}

	if _, err := p.Unmarshal([]byte("[AWS\nk=v\n")); err == nil {
		t.Fatalf("expected unterminated section error")
	}
	if _, err := p.Unmarshal([]byte("novalue\n")); err == nil {
		t.Fatalf("expected key=value error")
	}
}
