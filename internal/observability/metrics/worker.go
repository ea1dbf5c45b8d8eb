package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/martinHW299/crewai/internal/core/domain"
)

type AnalyzerMetrics struct {
	registry *prometheus.Registry
	service  string

	documentTotal     *prometheus.CounterVec
	documentDuration  *prometheus.HistogramVec
	documentsInFlight prometheus.Gauge
	classifyFailures  *prometheus.CounterVec
	runTotal          *prometheus.CounterVec
	runDuration       *prometheus.HistogramVec
	runCompleteness   prometheus.Histogram
}

func NewAnalyzerMetrics(service string) *AnalyzerMetrics {
	registry := prometheus.NewRegistry()

	documentTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reqan",
			Subsystem: "analyzer",
			Name:      "document_total",
			Help:      "Total analyzed documents by terminal status.",
		},
		[]string{"service", "status"},
	)
	documentDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reqan",
			Subsystem: "analyzer",
			Name:      "document_duration_seconds",
			Help:      "Per-document classification duration in seconds by status.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"service", "status"},
	)
	documentsInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "reqan",
			Subsystem: "analyzer",
			Name:      "documents_in_flight",
			Help:      "Number of documents currently being classified.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	classifyFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reqan",
			Subsystem: "analyzer",
			Name:      "classification_failures_total",
			Help:      "Total failed per-category classification calls by failure kind.",
		},
		[]string{"service", "kind"},
	)
	runTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reqan",
			Subsystem: "analyzer",
			Name:      "run_total",
			Help:      "Total analysis runs by terminal status.",
		},
		[]string{"service", "status"},
	)
	runDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reqan",
			Subsystem: "analyzer",
			Name:      "run_duration_seconds",
			Help:      "End-to-end analysis run duration in seconds by status.",
			Buckets:   []float64{10, 30, 60, 120, 300, 600, 1800, 3600},
		},
		[]string{"service", "status"},
	)
	runCompleteness := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "reqan",
			Subsystem: "analyzer",
			Name:      "run_aggregate_completeness",
			Help:      "Distribution of aggregate completeness scores across runs.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(documentTotal, documentDuration, documentsInFlight, classifyFailures, runTotal, runDuration, runCompleteness)

	return &AnalyzerMetrics{
		registry:          registry,
		service:           service,
		documentTotal:     documentTotal,
		documentDuration:  documentDuration,
		documentsInFlight: documentsInFlight,
		classifyFailures:  classifyFailures,
		runTotal:          runTotal,
		runDuration:       runDuration,
		runCompleteness:   runCompleteness,
	}
}

func (m *AnalyzerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *AnalyzerMetrics) DocumentStarted() {
	m.documentsInFlight.Inc()
}

func (m *AnalyzerMetrics) DocumentFinished(status domain.ProcessingStatus, duration time.Duration) {
	m.documentsInFlight.Dec()
	m.documentTotal.WithLabelValues(m.service, string(status)).Inc()
	m.documentDuration.WithLabelValues(m.service, string(status)).Observe(duration.Seconds())
}

func (m *AnalyzerMetrics) ClassificationFailure(kind domain.FailureKind) {
	m.classifyFailures.WithLabelValues(m.service, string(kind)).Inc()
}

func (m *AnalyzerMetrics) RunFinished(status domain.RunStatus, duration time.Duration, aggregateCompleteness float64) {
	m.runTotal.WithLabelValues(m.service, string(status)).Inc()
	m.runDuration.WithLabelValues(m.service, string(status)).Observe(duration.Seconds())
	m.runCompleteness.Observe(aggregateCompleteness)
}
