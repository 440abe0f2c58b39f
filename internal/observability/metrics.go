package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the QC
// pipeline.
type Metrics struct {
	ReportsConsumed prometheus.Counter
	ReportsProduced prometheus.Counter
	ParseErrors     prometheus.Counter
	PipelineRunning prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Engine metrics.
	EngineDuration prometheus.Histogram
	EngineErrors   prometheus.Counter
	FlagOutcomes   *prometheus.CounterVec // labels: check, flag={passed,failed,untestable,untested}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ReportsConsumed,
		m.ReportsProduced,
		m.ParseErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.EngineDuration,
		m.EngineErrors,
		m.FlagOutcomes,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ReportsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marine_qc",
			Name:      "reports_consumed_total",
			Help:      "Total reports read from the source topic.",
		}),
		ReportsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marine_qc",
			Name:      "reports_produced_total",
			Help:      "Total flagged reports written to the sink topic.",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marine_qc",
			Name:      "parse_errors_total",
			Help:      "Total raw reports skipped because they could not be parsed.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "marine_qc",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "marine_qc",
			Name:      "batch_size",
			Help:      "Number of reports per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100, 200},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "marine_qc",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-check-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		EngineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "marine_qc",
			Name:      "engine_duration_seconds",
			Help:      "Duration of one battery run over a batch.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		EngineErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marine_qc",
			Name:      "engine_errors_total",
			Help:      "Total battery runs that failed.",
		}),
		FlagOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marine_qc",
			Name:      "flag_outcomes_total",
			Help:      "Flags assigned, by check name and outcome.",
		}, []string{"check", "flag"}),
	}
}
