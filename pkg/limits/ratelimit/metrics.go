package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus metrics for the rate limiter.
type Metrics struct {
	checks     *prometheus.CounterVec
	rejections prometheus.Counter
}

// NewMetrics creates rate limiter metrics registered with the given
// registerer. Pass prometheus.DefaultRegisterer in production; tests use
// a fresh registry to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		checks: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "commune_ratelimit_checks_total",
				Help: "Total number of rate limit admission checks performed",
			},
			[]string{"result"},
		),
		rejections: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "commune_ratelimit_rejections_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
		),
	}
}

// observe records the outcome of one admission check.
func (m *Metrics) observe(result string) {
	if m == nil {
		return
	}
	m.checks.WithLabelValues(result).Inc()
	if result == "rejected" {
		m.rejections.Inc()
	}
}
