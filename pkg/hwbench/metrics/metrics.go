// Package metrics exposes benchmark runs as Prometheus metrics.
// Each Metrics value owns its registry so it can be written to a node-exporter
// textfile after a run without touching the global default registry.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

const namespace = "hwbench"

// Metrics holds the collectors updated by the parallel coordinator and the runner.
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal       *prometheus.CounterVec
	FailuresTotal   *prometheus.CounterVec
	Result          *prometheus.GaugeVec
	ThreadsUsed     *prometheus.GaugeVec
	ElapsedSeconds  *prometheus.HistogramVec
	WorkersInFlight prometheus.Gauge
}

// New creates a Metrics value with all collectors registered on a private registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of coordinator runs by mode",
		},
		[]string{"mode"},
	)

	m.FailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Total number of benchmarks that produced no result",
		},
		[]string{"benchmark"},
	)

	m.Result = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "result",
			Help:      "Most recent benchmark score",
		},
		[]string{"benchmark"},
	)

	m.ThreadsUsed = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "threads_used",
			Help:      "Worker count of the most recent benchmark run",
		},
		[]string{"benchmark"},
	)

	m.ElapsedSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "elapsed_seconds",
			Help:      "Wall-clock duration of coordinator runs in seconds",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"mode"},
	)

	m.WorkersInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers_in_flight",
			Help:      "Number of worker goroutines currently running",
		},
	)

	m.registry.MustRegister(
		m.RunsTotal,
		m.FailuresTotal,
		m.Result,
		m.ThreadsUsed,
		m.ElapsedSeconds,
		m.WorkersInFlight,
	)

	return m
}

// Registry returns the registry holding all collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRun records one coordinator run.
func (m *Metrics) ObserveRun(mode string, v types.Value) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(mode).Inc()
	m.ElapsedSeconds.WithLabelValues(mode).Observe(v.ElapsedTime)
}

// ObserveBenchmark records the final value of a named benchmark.
func (m *Metrics) ObserveBenchmark(name string, v types.Value) {
	if m == nil {
		return
	}
	if !v.Valid() {
		m.FailuresTotal.WithLabelValues(name).Inc()
		return
	}
	m.Result.WithLabelValues(name).Set(v.Result)
	m.ThreadsUsed.WithLabelValues(name).Set(float64(v.ThreadsUsed))
}

// WorkerStarted and WorkerDone track live worker goroutines.
func (m *Metrics) WorkerStarted() {
	if m != nil {
		m.WorkersInFlight.Inc()
	}
}

func (m *Metrics) WorkerDone() {
	if m != nil {
		m.WorkersInFlight.Dec()
	}
}

// WriteTextfile writes all metrics in the Prometheus text format to path,
// replacing the file atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
