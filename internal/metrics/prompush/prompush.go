// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package. The job is a batch process with no scrape endpoint, so
// collected metrics are pushed once when the job finishes.
package prompush

import (
	"fmt"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" grouping key
	reg        *prometheus.Registry

	stageCounter  *prometheus.CounterVec // etl_stage_total
	stageDuration *prometheus.SummaryVec // etl_stage_duration_seconds
	rowCounter    *prometheus.CounterVec // etl_rows_total
	fileCounter   *prometheus.CounterVec // etl_files_written_total
	byteCounter   *prometheus.CounterVec // etl_bytes_written_total
}

// NewBackend constructs a Pushgateway backend. jobName becomes the
// Pushgateway "job" label and defaults to "sparkify".
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "sparkify"
	}

	b := &Backend{
		gatewayURL: gatewayURL,
		jobName:    jobName,
		reg:        prometheus.NewRegistry(),
		stageCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.StageTotal,
			Help: "Job stage executions by stage and status.",
		}, []string{"stage", "status"}),
		stageDuration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       metrics.StageDuration,
			Help:       "Job stage duration in seconds by stage and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, []string{"stage", "status"}),
		rowCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.RowsTotal,
			Help: "Rows per table and kind (read, dropped, written, loaded).",
		}, []string{"table", "kind"}),
		fileCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.FilesTotal,
			Help: "Parquet part files written per table.",
		}, []string{"table"}),
		byteCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.BytesTotal,
			Help: "Parquet bytes written per table.",
		}, []string{"table"}),
	}

	for name, c := range map[string]prometheus.Collector{
		"stage counter": b.stageCounter,
		"stage summary": b.stageDuration,
		"row counter":   b.rowCounter,
		"file counter":  b.fileCounter,
		"byte counter":  b.byteCounter,
	} {
		if err := b.reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", name, err)
		}
	}
	return b, nil
}

// IncCounter routes a counter update to its collector. Unknown names are
// ignored.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StageTotal:
		b.stageCounter.WithLabelValues(labels["stage"], labels["status"]).Add(delta)
	case metrics.RowsTotal:
		b.rowCounter.WithLabelValues(labels["table"], labels["kind"]).Add(delta)
	case metrics.FilesTotal:
		b.fileCounter.WithLabelValues(labels["table"]).Add(delta)
	case metrics.BytesTotal:
		b.byteCounter.WithLabelValues(labels["table"]).Add(delta)
	}
}

// ObserveHistogram records stage durations. Other names are ignored.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.StageDuration {
		return
	}
	b.stageDuration.WithLabelValues(labels["stage"], labels["status"]).Observe(value)
}

// Flush pushes the registry to the Pushgateway, replacing the previous
// push for this job.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
