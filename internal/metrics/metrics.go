// Package metrics exposes Prometheus metrics for the grader API: request
// counters and latencies, plus timings of the timeline fold that backs
// every match endpoint.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns a registry and the collectors registered on it. A nil
// *Manager is valid and records nothing.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	foldsTotal    prometheus.Counter
	ralliesFolded prometheus.Counter
	foldDuration  prometheus.Histogram
}

// NewManager creates a Manager with its own registry unless WithRegistry is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "tennis_grader",
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(collectors.NewGoCollector())
	}
	m.init()
	return m
}

func (m *Manager) init() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route pattern, method and status code.",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern and method.",
		Buckets:   m.buckets,
	}, []string{"route", "method"})

	m.foldsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "timeline",
		Name:      "folds_total",
		Help:      "Timelines rebuilt from a rally list.",
	})

	m.ralliesFolded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "timeline",
		Name:      "rallies_folded_total",
		Help:      "Rallies folded across all timeline rebuilds.",
	})

	m.foldDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "timeline",
		Name:      "fold_duration_seconds",
		Help:      "Time to rebuild and annotate a timeline.",
		Buckets:   m.buckets,
	})
}

// RecordHTTPRequest counts one request against its route pattern.
func (m *Manager) RecordHTTPRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// ObserveFold records one timeline rebuild over n rallies.
func (m *Manager) ObserveFold(n int, d time.Duration) {
	if m == nil {
		return
	}
	m.foldsTotal.Inc()
	m.ralliesFolded.Add(float64(n))
	m.foldDuration.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}
