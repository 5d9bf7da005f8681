package model

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records store activity. A nil *Metrics records nothing.
type Metrics struct {
	mutations          *prometheus.CounterVec
	historyOps         *prometheus.CounterVec
	elements           prometheus.Gauge
	relationships      prometheus.Gauge
	undoDepth          prometheus.Gauge
	redoDepth          prometheus.Gauge
	validationFindings prometheus.Gauge
	validationDuration prometheus.Histogram
}

// NewMetrics creates the store metrics and registers them with reg, if given.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sysml_store_mutations_total",
				Help: "Number of model mutations by operation.",
			},
			[]string{"operation"},
		),
		historyOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sysml_store_history_operations_total",
				Help: "Number of undo and redo operations applied.",
			},
			[]string{"operation"},
		),
		elements: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sysml_store_elements",
				Help: "Number of elements in the model.",
			},
		),
		relationships: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sysml_store_relationships",
				Help: "Number of relationships in the model.",
			},
		),
		undoDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sysml_store_undo_depth",
				Help: "Number of snapshots available to undo.",
			},
		),
		redoDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sysml_store_redo_depth",
				Help: "Number of snapshots available to redo.",
			},
		),
		validationFindings: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sysml_validation_findings",
				Help: "Number of findings reported by the last model validation.",
			},
		),
		validationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sysml_validation_duration_seconds",
				Help:    "Time taken to validate the model.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	if reg != nil {
		reg.MustRegister(
			m.mutations,
			m.historyOps,
			m.elements,
			m.relationships,
			m.undoDepth,
			m.redoDepth,
			m.validationFindings,
			m.validationDuration,
		)
	}
	return m
}

func (m *Metrics) mutation(op string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op).Inc()
}

func (m *Metrics) historyOp(op string) {
	if m == nil {
		return
	}
	m.historyOps.WithLabelValues(op).Inc()
}

func (m *Metrics) size(elements, relationships int) {
	if m == nil {
		return
	}
	m.elements.Set(float64(elements))
	m.relationships.Set(float64(relationships))
}

func (m *Metrics) history(undo, redo int) {
	if m == nil {
		return
	}
	m.undoDepth.Set(float64(undo))
	m.redoDepth.Set(float64(redo))
}

func (m *Metrics) validation(d time.Duration, findings int) {
	if m == nil {
		return
	}
	m.validationDuration.Observe(d.Seconds())
	m.validationFindings.Set(float64(findings))
}
