package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetrics implements port.MetricsPort on its own registry.
type PrometheusMetrics struct {
	registry       *prometheus.Registry
	cacheLookups   *prometheus.CounterVec
	sourceAttempts *prometheus.CounterVec
	resolutions    *prometheus.CounterVec
}

func NewPrometheusMetrics(namespace string) *PrometheusMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &PrometheusMetrics{
		registry: reg,
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by request kind and outcome.",
		}, []string{"kind", "hit"}),
		sourceAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_attempts_total",
			Help:      "Data source calls by source and outcome.",
		}, []string{"source", "outcome"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Resolved requests by kind and the source that served them.",
		}, []string{"kind", "source"}),
	}
	reg.MustRegister(m.cacheLookups, m.sourceAttempts, m.resolutions)
	return m
}

func (m *PrometheusMetrics) CacheLookup(kind string, hit bool) {
	m.cacheLookups.WithLabelValues(kind, strconv.FormatBool(hit)).Inc()
}

func (m *PrometheusMetrics) SourceAttempt(source, outcome string) {
	m.sourceAttempts.WithLabelValues(source, outcome).Inc()
}

func (m *PrometheusMetrics) Resolved(kind, source string) {
	m.resolutions.WithLabelValues(kind, source).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
