package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records inventory build statistics and writes them in the
// Prometheus text format for a node_exporter textfile collector.
type Metrics struct {
	config MetricsConfig

	groups        prometheus.Gauge
	hosts         prometheus.Gauge
	importedFiles prometheus.Counter
	buildDuration prometheus.Gauge
	runs          *prometheus.CounterVec
	lastRun       prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a metrics collector. With an empty TextfilePath every
// method is a no-op.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if cfg.TextfilePath == "" {
		return &Metrics{config: cfg}
	}

	namespace := cfg.Namespace
	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		groups: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "groups",
			Help:      "Number of groups in the inventory graph, including all and _all",
		}),
		hosts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hosts",
			Help:      "Number of hosts in the inventory graph",
		}),
		importedFiles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imported_var_files_total",
			Help:      "Number of import_vars files read",
		}),
		buildDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Time spent loading and building the inventory graph",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Inventory runs by mode and status",
		}, []string{"mode", "status"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last inventory run",
		}),
	}

	registry.MustRegister(
		m.groups,
		m.hosts,
		m.importedFiles,
		m.buildDuration,
		m.runs,
		m.lastRun,
	)

	return m
}

// SetGraphSize records the number of groups and hosts.
func (m *Metrics) SetGraphSize(groups, hosts int) {
	if m.registry == nil {
		return
	}
	m.groups.Set(float64(groups))
	m.hosts.Set(float64(hosts))
}

// IncImportedFiles counts one import_vars file read.
func (m *Metrics) IncImportedFiles() {
	if m.registry == nil {
		return
	}
	m.importedFiles.Inc()
}

// ObserveBuild records the build duration.
func (m *Metrics) ObserveBuild(d time.Duration) {
	if m.registry == nil {
		return
	}
	m.buildDuration.Set(d.Seconds())
}

// RecordRun counts a finished run.
func (m *Metrics) RecordRun(mode, status string) {
	if m.registry == nil {
		return
	}
	m.runs.WithLabelValues(mode, status).Inc()
	m.lastRun.SetToCurrentTime()
}

// WriteTextfile writes all metrics to the configured path.
func (m *Metrics) WriteTextfile() error {
	if m.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(m.config.TextfilePath, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
