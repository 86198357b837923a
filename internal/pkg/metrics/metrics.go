package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Enhancement outcomes
const (
	OutcomeSuccess         = "success"
	OutcomeConfigError     = "config_error"
	OutcomeUpstreamError   = "upstream_error"
	OutcomeEmptyCompletion = "empty_completion"
	OutcomeParseError      = "parse_error"
	OutcomeStoreError      = "store_error"
)

// Metrics encapsulates Prometheus metrics for the service.
type Metrics struct {
	registry            *prometheus.Registry
	RequestsTotal       *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
	ActiveRequests      prometheus.Gauge
	EnhancementsTotal   *prometheus.CounterVec
	CompletionDuration  prometheus.Histogram
	BreakerStateChanges *prometheus.CounterVec
}

// New creates a new Metrics instance with a custom registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prompt_enhancer_http_requests_total",
				Help: "Total number of HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "prompt_enhancer_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		ActiveRequests: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "prompt_enhancer_http_active_requests",
				Help: "Number of currently active HTTP requests",
			},
		),
		EnhancementsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prompt_enhancer_enhancements_total",
				Help: "Total number of prompt enhancements by variant and outcome",
			},
			[]string{"variant", "outcome"},
		),
		CompletionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "prompt_enhancer_llm_completion_duration_seconds",
				Help:    "Duration of LLM completion calls in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
			},
		),
		BreakerStateChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prompt_enhancer_llm_breaker_transitions_total",
				Help: "Circuit breaker state transitions by target state",
			},
			[]string{"state"},
		),
	}

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Handler returns a handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
