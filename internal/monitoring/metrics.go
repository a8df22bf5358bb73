package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics covers the two background jobs: run counts, durations,
// and how many records each run touched.
type PipelineMetrics struct {
	jobRuns     *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	jobRecords  *prometheus.CounterVec
	activeJobs  prometheus.Gauge
}

func NewPipelineMetrics() *PipelineMetrics {
	return &PipelineMetrics{
		jobRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_backend_job_runs_total",
				Help: "Total number of background job runs",
			},
			[]string{"job", "status"},
		),

		jobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "analytics_backend_job_duration_seconds",
				Help:    "Duration of background job runs in seconds",
				Buckets: []float64{0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 30.0, 60.0, 120.0, 300.0},
			},
			[]string{"job", "status"},
		),

		jobRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_backend_job_records_total",
				Help: "Total number of records inserted or patched by background jobs",
			},
			[]string{"job"},
		),

		activeJobs: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "analytics_backend_active_jobs",
				Help: "Number of background jobs currently running",
			},
		),
	}
}

// MustRegister registers all pipeline metrics with the provided registry
func (m *PipelineMetrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(
		m.jobRuns,
		m.jobDuration,
		m.jobRecords,
		m.activeJobs,
	)
}

// RecordJobRecords adds the record count of one finished run
func (m *PipelineMetrics) RecordJobRecords(job string, records int) {
	if records > 0 {
		m.jobRecords.WithLabelValues(job).Add(float64(records))
	}
}
