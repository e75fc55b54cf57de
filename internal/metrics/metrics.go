// Package metrics exposes achievement and trust telemetry to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so tests can build as many as they like.
type Collector struct {
	registry *prometheus.Registry

	grants             *prometheus.CounterVec
	evaluations        *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec
	trustFallbacks     prometheus.Counter
}

func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "mutualaid"
	}

	c := &Collector{registry: prometheus.NewRegistry()}

	c.grants = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "achievements",
			Name:      "grants_total",
			Help:      "Achievement grants that created a new row.",
		},
		[]string{"slug"},
	)

	c.evaluations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "achievements",
			Name:      "evaluations_total",
			Help:      "Metric evaluations by outcome (ok, input_error, timeout, error).",
		},
		[]string{"metric", "outcome"},
	)

	c.evaluationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "achievements",
			Name:      "evaluation_duration_seconds",
			Help:      "Time spent resolving and granting one metric.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"metric"},
	)

	c.trustFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trust",
			Name:      "fallbacks_total",
			Help:      "Trust snapshots served from the lowest tier because the approved count was unavailable.",
		},
	)

	c.registry.MustRegister(c.grants, c.evaluations, c.evaluationDuration, c.trustFallbacks)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) GrantCreated(slug string) {
	c.grants.WithLabelValues(slug).Inc()
}

func (c *Collector) Evaluation(metric string, outcome string, took time.Duration) {
	c.evaluations.WithLabelValues(metric, outcome).Inc()
	c.evaluationDuration.WithLabelValues(metric).Observe(took.Seconds())
}

func (c *Collector) TrustFallback() {
	c.trustFallbacks.Inc()
}
