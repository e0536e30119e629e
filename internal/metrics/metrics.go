// Package metrics records job-level counters and stage timings behind a
// small pluggable Backend.
//
// The default backend is a no-op, so instrumentation calls are always safe.
// Concrete backends live in subpackages (prompush, datadog) and are installed
// once from main with SetBackend.
package metrics

import (
	"sync"
	"time"
)

// Metric names emitted by the job.
const (
	StageTotal    = "etl_stage_total"
	StageDuration = "etl_stage_duration_seconds"
	RowsTotal     = "etl_rows_total"
	FilesTotal    = "etl_files_written_total"
	BytesTotal    = "etl_bytes_written_total"
)

// Row kinds reported with RecordRows.
const (
	KindRead    = "read"
	KindDropped = "dropped"
	KindCorrupt = "corrupt"
	KindWritten = "written"
	KindLoaded  = "loaded"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a duration style value.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes buffered metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

// RecordStage counts one run of a job stage and observes its duration.
func RecordStage(job, stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "stage": stage, "status": status}

	b := current()
	b.IncCounter(StageTotal, 1, lbls)
	b.ObserveHistogram(StageDuration, d.Seconds(), lbls)
}

// RecordRows adds delta rows of the given kind for a table. Source reads use
// the source name ("song_data", "log_data") as the table.
func RecordRows(job, table, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RowsTotal, float64(delta), Labels{
		"job":   job,
		"table": table,
		"kind":  kind,
	})
}

// RecordFiles adds written part files and their total size for a table.
func RecordFiles(job, table string, files int, bytes int64) {
	if files <= 0 {
		return
	}
	lbls := Labels{"job": job, "table": table}
	b := current()
	b.IncCounter(FilesTotal, float64(files), lbls)
	if bytes > 0 {
		b.IncCounter(BytesTotal, float64(bytes), lbls)
	}
}
