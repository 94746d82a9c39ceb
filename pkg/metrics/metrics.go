// Package metrics records check runs as Prometheus metrics on a private
// registry, which can be written out in the node exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ccollicutt/sitelog/pkg/convert"
	"github.com/ccollicutt/sitelog/pkg/finding"
)

const namespace = "sitelog"

// Metrics holds the collectors for one process. A nil *Metrics records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	documents   *prometheus.CounterVec   // By result (valid/invalid/failed)
	findings    *prometheus.CounterVec   // By level
	conversions *prometheus.CounterVec   // By kind and outcome
	unexpected  prometheus.Counter       // Sections without a translation table
	duration    *prometheus.HistogramVec // By phase (parse/bind)
	lastRun     prometheus.Gauge
}

// New creates and registers the collectors on a fresh registry.
func New() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Site logs checked, by result",
		}, []string{"result"}),

		findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "findings_total",
			Help:      "Findings reported, by level",
		}, []string{"level"}),

		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "binder",
			Name:      "conversions_total",
			Help:      "Parameter conversions, by converter kind and outcome",
		}, []string{"kind", "outcome"}),

		unexpected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "binder",
			Name:      "unexpected_sections_total",
			Help:      "Sections with no translation table",
		}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Time spent per document, by phase",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"phase"}),

		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last check run finished",
		}),
	}

	for _, c := range []prometheus.Collector{m.documents, m.findings, m.conversions, m.unexpected, m.duration, m.lastRun} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
	}
	return m, nil
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Document results.
const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"
	ResultFailed  = "failed"
)

// ObserveDocument records one checked document and its findings.
func (m *Metrics) ObserveDocument(result string, findings *finding.Set) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(result).Inc()
	if findings == nil {
		return
	}
	for _, lvl := range []finding.Level{finding.Error, finding.Warning, finding.Ignored} {
		if n := findings.Count(lvl); n > 0 {
			m.findings.WithLabelValues(lvl.String()).Add(float64(n))
		}
	}
}

// ObserveConversion records one parameter conversion.
func (m *Metrics) ObserveConversion(kind convert.Kind, outcome string) {
	if m == nil {
		return
	}
	m.conversions.WithLabelValues(string(kind), outcome).Inc()
}

// ObserveUnexpected records sections with no translation table.
func (m *Metrics) ObserveUnexpected(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.unexpected.Add(float64(n))
}

// ObservePhase records how long a phase took.
func (m *Metrics) ObservePhase(phase string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(phase).Observe(d.Seconds())
}

// MarkRun stamps the end of a run.
func (m *Metrics) MarkRun(t time.Time) {
	if m == nil {
		return
	}
	m.lastRun.Set(float64(t.Unix()))
}

// WriteTextfile writes every metric to path in the text exposition format.
// The file is written atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
