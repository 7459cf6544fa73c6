// Package metrics exposes Prometheus metrics for the gateway and the pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/Veraticus/plata/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "plata"

// Result kinds used as label values.
const (
	ResultData  = "data"
	ResultText  = "text"
	ResultError = "error"
)

// Collector records gateway calls and pipeline outcomes on its own registry.
// It satisfies llm.Observer and pipeline.Recorder.
type Collector struct {
	registry *prometheus.Registry

	llmCalls     *prometheus.CounterVec
	llmLatency   *prometheus.HistogramVec
	llmFallbacks *prometheus.CounterVec
	actions      *prometheus.CounterVec
	results      *prometheus.CounterVec
	financial    *prometheus.CounterVec
	failures     *prometheus.CounterVec
}

// NewCollector creates a collector with a fresh registry that also carries
// the Go runtime and process collectors.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		llmCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_calls_total",
				Help:      "Total number of LLM provider calls",
			},
			[]string{"role", "provider", "outcome"},
		),
		llmLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "llm_call_duration_seconds",
				Help:      "LLM provider call latency in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"role", "provider"},
		),
		llmFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_fallbacks_total",
				Help:      "Total number of requests rescued by the fallback provider",
			},
			[]string{"primary"},
		),
		actions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "actions_detected_total",
				Help:      "Messages classified per action type",
			},
			[]string{"action"},
		),
		results: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "results_total",
				Help:      "Processing results returned per kind",
			},
			[]string{"kind"},
		),
		financial: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "financial_actions_total",
				Help:      "Financial actions extracted per type",
			},
			[]string{"type"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_failures_total",
				Help:      "Pipeline runs that failed per stage",
			},
			[]string{"stage"},
		),
	}
}

// ObserveCall records one provider attempt.
func (c *Collector) ObserveCall(role, provider, outcome string, elapsed time.Duration) {
	c.llmCalls.WithLabelValues(role, provider, outcome).Inc()
	c.llmLatency.WithLabelValues(role, provider).Observe(elapsed.Seconds())
}

// ObserveFallback records a switch to the fallback provider.
func (c *Collector) ObserveFallback(primary string) {
	c.llmFallbacks.WithLabelValues(primary).Inc()
}

// RecordAction counts a classified message.
func (c *Collector) RecordAction(action model.ActionType) {
	c.actions.WithLabelValues(string(action)).Inc()
}

// RecordResults counts the results of one pipeline run.
func (c *Collector) RecordResults(results []model.ProcessingResult) {
	for _, r := range results {
		switch {
		case r.IsData():
			c.results.WithLabelValues(ResultData).Inc()
			c.financial.WithLabelValues(string(r.Data.Type())).Inc()
		case r.IsError():
			c.results.WithLabelValues(ResultError).Inc()
		default:
			c.results.WithLabelValues(ResultText).Inc()
		}
	}
}

// RecordFailure counts a pipeline run that stopped at stage.
func (c *Collector) RecordFailure(stage string) {
	c.failures.WithLabelValues(stage).Inc()
}


// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
