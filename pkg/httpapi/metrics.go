package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects the HTTP surface's Prometheus instrumentation. Each
// Metrics owns its own registry, so multiple Servers (as in tests, or a
// process that ever constructs more than one) never collide on the
// default registry's global collector names.
type Metrics struct {
	registry         *prometheus.Registry
	requestsTotal    *prometheus.CounterVec
	generateDuration *prometheus.HistogramVec
}

// NewMetrics constructs a fresh registry and registers the gateway's
// request metrics against it.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gateway",
				Subsystem: "inference",
				Name:      "requests_total",
				Help:      "Total number of chat completion requests by backend and outcome.",
			},
			[]string{"backend", "outcome"},
		),
		generateDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gateway",
				Subsystem: "inference",
				Name:      "generate_seconds",
				Help:      "Time spent generating a completion, from Load/Generate dispatch to completion.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"backend"},
		),
	}
}

func (m *Metrics) observeRequest(backend, outcome string, seconds float64) {
	m.requestsTotal.WithLabelValues(backend, outcome).Inc()
	m.generateDuration.WithLabelValues(backend).Observe(seconds)
}
