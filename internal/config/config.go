// Package config defines the configuration model for the data-lake ETL job,
// the layered loader that fills it (defaults, file, environment) and the
// INI credentials file reader.
//
// A zero-argument run uses Default(), which matches the stock job:
// read from s3://udacity-dend/ and write to s3://datalake.ram/.
//
// Example YAML (trimmed):
//
//	input:
//	  uri: s3://udacity-dend/
//	  join_song_glob: song_data/*/*/*/*.json
//	output:
//	  uri: file:///tmp/lake
//	transform:
//	  users_dedup: key
//	warehouse:
//	  enabled: true
//	  kind: sqlite
//	  dsn: file:lake.db
package config

import "github.com/Ramanathantrb/Datalakes-with-spark/internal/logging"

// Dedup policies for dimension tables.
const (
	// DedupRow drops rows that are identical across every column.
	DedupRow = "row"
	// DedupKey keeps a single row per natural key.
	DedupKey = "key"
)

// Join-key policies for the songplays join.
const (
	// JoinExact compares artist names byte for byte.
	JoinExact = "exact"
	// JoinFold compares NFC-normalized, case-folded, trimmed artist names.
	JoinFold = "fold"
)

// Config is the top-level job configuration.
type Config struct {
	// Job labels metrics and log lines for this run.
	Job string `koanf:"job"`

	Credentials Credentials `koanf:"credentials"`
	Input       Input       `koanf:"input"`
	Output      Output      `koanf:"output"`
	S3          S3          `koanf:"s3"`
	Transform   Transform   `koanf:"transform"`
	Runtime     Runtime     `koanf:"runtime"`
	Warehouse   Warehouse   `koanf:"warehouse"`
	Metrics     Metrics     `koanf:"metrics"`

	Logging logging.Config `koanf:"logging"`
}

// Credentials points at the INI key-value file holding the access keys.
// The keys themselves are never part of Config; see LoadCredentials.
type Credentials struct {
	File    string `koanf:"file"`
	Section string `koanf:"section"`
}

// Input locates the raw JSON datasets.
type Input struct {
	URI string `koanf:"uri"`

	// SongGlob selects catalog files for the songs and artists tables.
	SongGlob string `koanf:"song_glob"`

	// LogGlob selects event log files.
	LogGlob string `koanf:"log_glob"`

	// JoinSongGlob selects the catalog files joined against events for
	// songplays. It defaults to the A/A/A subtree.
	JoinSongGlob string `koanf:"join_song_glob"`
}

// Output locates the lake root.
type Output struct {
	URI string `koanf:"uri"`

	// Compression is the parquet codec: snappy, gzip, zstd or uncompressed.
	Compression string `koanf:"compression"`
}

// S3 holds connector settings for s3:// and s3a:// URIs.
type S3 struct {
	Region string `koanf:"region"`

	// Endpoint overrides the service endpoint, e.g. for MinIO.
	Endpoint  string `koanf:"endpoint"`
	PathStyle bool   `koanf:"path_style"`
}

// Transform controls the table derivation policies.
type Transform struct {
	// PlayPage is the page value that marks a song play event.
	PlayPage string `koanf:"play_page"`

	UsersDedup   string `koanf:"users_dedup"`
	ArtistsDedup string `koanf:"artists_dedup"`

	// JoinKey is "exact" or "fold".
	JoinKey string `koanf:"join_key"`
}

// Runtime controls concurrency and file sizing.
type Runtime struct {
	ReadWorkers    int  `koanf:"read_workers"`
	WriteWorkers   int  `koanf:"write_workers"`
	RowsPerFile    int  `koanf:"rows_per_file"`
	CheckIntegrity bool `koanf:"check_integrity"`
}

// Warehouse configures the optional SQL load that follows the lake writes.
type Warehouse struct {
	Enabled   bool   `koanf:"enabled"`
	Kind      string `koanf:"kind"`
	DSN       string `koanf:"dsn"`
	Schema    string `koanf:"schema"`
	BatchSize int    `koanf:"batch_size"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is none, pushgateway or datadog.
	Backend        string `koanf:"backend"`
	PushgatewayURL string `koanf:"pushgateway_url"`
	DatadogAddr    string `koanf:"datadog_addr"`
}

// Default returns the configuration of a plain zero-flag run.
func Default() Config {
	return Config{
		Job: "sparkify",
		Credentials: Credentials{
			File:    "dl.cfg",
			Section: "AWS",
		},
		Input: Input{
			URI:          "s3://udacity-dend/",
			SongGlob:     "song_data/*/*/*/*.json",
			LogGlob:      "log_data/*/*/*.json",
			JoinSongGlob: "song_data/A/A/A/*.json",
		},
		Output: Output{
			URI:         "s3://datalake.ram/",
			Compression: "snappy",
		},
		S3: S3{
			Region: "us-west-2",
		},
		Transform: Transform{
			PlayPage:     "NextSong",
			UsersDedup:   DedupRow,
			ArtistsDedup: DedupRow,
			JoinKey:      JoinExact,
		},
		Runtime: Runtime{
			ReadWorkers:  8,
			WriteWorkers: 4,
			RowsPerFile:  100000,
		},
		Warehouse: Warehouse{
			BatchSize: 5000,
		},
		Metrics: Metrics{
			Backend: "none",
		},
		Logging: logging.Config{
			Level:     "info",
			Format:    "json",
			Timestamp: true,
		},
	}
}
