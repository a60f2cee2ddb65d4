package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "resume_analyzer"

// Metrics groups the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	completionCalls    *prometheus.CounterVec
	completionDuration *prometheus.HistogramVec
	pipelineRuns       *prometheus.CounterVec
	extractions        *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		completionCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "completion_calls_total",
			Help:      "Completion calls by prompt kind and outcome.",
		}, []string{"kind", "outcome"}),
		completionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "completion_duration_seconds",
			Help:      "Completion call latency by prompt kind.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
		}, []string{"kind"}),
		pipelineRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pipeline_runs_total",
			Help:      "Pipeline runs by pipeline name and outcome.",
		}, []string{"pipeline", "outcome"}),
		extractions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "text_extractions_total",
			Help:      "Document-to-text conversions by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) ObserveCompletion(kind PromptKind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.completionCalls.WithLabelValues(string(kind), outcome).Inc()
	m.completionDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

func (m *Metrics) ObservePipeline(pipeline string, err error) {
	if m == nil {
		return
	}
	m.pipelineRuns.WithLabelValues(pipeline, outcomeFor(err)).Inc()
}

func (m *Metrics) ObserveExtraction(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.extractions.WithLabelValues(outcome).Inc()
}
