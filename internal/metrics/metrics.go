// Package metrics records what a movectl run did, in Prometheus form.
//
// movectl is a short-lived process, so nothing is served over HTTP. The
// registry is written once at the end of a run in the node_exporter textfile
// format, where CI hosts pick it up.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the movectl collectors. A nil *Recorder records nothing.
type Recorder struct {
	reg *prometheus.Registry

	filesTotal       *prometheus.CounterVec
	contractsTotal   prometheus.Gauge
	runDuration      *prometheus.HistogramVec
	lastRunTimestamp *prometheus.GaugeVec
}

// New returns a Recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		reg: reg,
		filesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "movectl_files_total",
			Help: "Files processed by pipeline and outcome.",
		}, []string{"pipeline", "outcome"}),
		contractsTotal: factory.NewGauge(prometheus.GaugeOpts{
			Name: "movectl_contracts_published",
			Help: "Contracts listed in the last generated section.",
		}),
		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "movectl_run_duration_seconds",
			Help:    "Pipeline run duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"pipeline"}),
		lastRunTimestamp: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "movectl_last_run_timestamp_seconds",
			Help: "Unix time the pipeline last finished, by result.",
		}, []string{"pipeline", "result"}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// RecordFile counts one processed file.
func (r *Recorder) RecordFile(pipeline, outcome string) {
	if r == nil {
		return
	}
	r.filesTotal.WithLabelValues(pipeline, outcome).Inc()
}

// SetContracts records how many contracts the generated section lists.
func (r *Recorder) SetContracts(n int) {
	if r == nil {
		return
	}
	r.contractsTotal.Set(float64(n))
}

// ObserveRun records a finished pipeline run.
func (r *Recorder) ObserveRun(pipeline string, d time.Duration, err error) {
	if r == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	r.runDuration.WithLabelValues(pipeline).Observe(d.Seconds())
	r.lastRunTimestamp.WithLabelValues(pipeline, result).SetToCurrentTime()
}

// WriteTextfile writes all metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.reg)
}
