// Package metrics exposes Prometheus collectors for crossing queries and
// ephemeris lookups.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thurmanmarka/astroreturn"
)

type Collector struct {
	registry *prometheus.Registry

	queryDuration   *prometheus.HistogramVec
	queriesTotal    *prometheus.CounterVec
	providerLookups *prometheus.CounterVec
}

// NewCollector creates the collectors on a private registry, so several
// servers (or tests) in one process don't collide.
func NewCollector() *Collector {
	m := &Collector{
		registry: prometheus.NewRegistry(),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "astroreturn_query_duration_seconds",
				Help:    "Time spent resolving a query",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"body", "op"},
		),
		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astroreturn_queries_total",
				Help: "Total number of queries by outcome",
			},
			[]string{"body", "op", "outcome"},
		),
		providerLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astroreturn_provider_lookups_total",
				Help: "Total number of longitude lookups",
			},
			[]string{"body"},
		),
	}

	m.registry.MustRegister(m.queryDuration)
	m.registry.MustRegister(m.queriesTotal)
	m.registry.MustRegister(m.providerLookups)
	m.registry.MustRegister(collectors.NewGoCollector())

	return m
}

// Outcome classifies a query error for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, astroreturn.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, astroreturn.ErrCrossingNotFound):
		return "not_found"
	case errors.Is(err, astroreturn.ErrProvider):
		return "provider_error"
	default:
		return "error"
	}
}

func (m *Collector) RecordQuery(body, op string, duration time.Duration, err error) {
	m.queryDuration.WithLabelValues(body, op).Observe(duration.Seconds())
	m.queriesTotal.WithLabelValues(body, op, Outcome(err)).Inc()
}

// Provider wraps p so that every lookup is counted per body.
func (m *Collector) Provider(p astroreturn.LongitudeProvider) astroreturn.LongitudeProvider {
	return astroreturn.ProviderFunc(func(bodyID string, at astroreturn.Instant) (float64, error) {
		m.providerLookups.WithLabelValues(bodyID).Inc()
		return p.Longitude(bodyID, at)
	})
}

// Handler serves the registry in the Prometheus text format.
func (m *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
