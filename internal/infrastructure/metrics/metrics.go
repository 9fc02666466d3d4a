// Package metrics holds the Prometheus collectors for the editorial services.
// Every Record/Observe method is safe to call on a nil *Metrics so tests and
// tools can run without a registry.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec   // method, route, status
	HTTPRequestDuration *prometheus.HistogramVec // method, route

	// Submission lifecycle
	TransitionsTotal *prometheus.CounterVec // event, from, to

	// Expiry sweep
	SweepRunsTotal     *prometheus.CounterVec // trigger, outcome
	SweepExpiredTotal  prometheus.Counter
	SweepDuration      prometheus.Histogram
	SweepLastRunSecond prometheus.Gauge

	// Communications
	CommunicationsTotal   *prometheus.CounterVec   // type, status
	CommunicationDuration *prometheus.HistogramVec // type

	// Cache
	CacheLookupsTotal *prometheus.CounterVec // cache, result

	// Database pool
	DBPoolAcquiredConns prometheus.Gauge
	DBPoolTotalConns    prometheus.Gauge

	registry *prometheus.Registry
}

// New builds the collectors and registers them on a fresh registry together
// with the Go runtime and process collectors.
func New() (*Metrics, error) {
	registry := prometheus.NewRegistry()
	m := &Metrics{registry: registry}
	m.initMetrics()

	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register editorial metrics: %w", err)
	}
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register go collector: %w", err)
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("failed to register process collector: %w", err)
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "editorial_http_requests_total",
			Help: "HTTP requests by method, route template and status code",
		},
		[]string{"method", "route", "status"},
	)
	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "editorial_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route template",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.TransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "editorial_submission_transitions_total",
			Help: "Applied submission lifecycle events",
		},
		[]string{"event", "from", "to"},
	)

	m.SweepRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "editorial_expiry_sweep_runs_total",
			Help: "Expiry sweep runs by trigger (scheduled, manual) and outcome (ok, error, skipped)",
		},
		[]string{"trigger", "outcome"},
	)
	m.SweepExpiredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "editorial_expiry_sweep_expired_total",
		Help: "Submissions moved to EXPIRED by the sweep",
	})
	m.SweepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "editorial_expiry_sweep_duration_seconds",
		Help:    "Duration of expiry sweep runs",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
	})
	m.SweepLastRunSecond = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "editorial_expiry_sweep_last_run_timestamp_seconds",
		Help: "Unix time the last expiry sweep finished",
	})

	m.CommunicationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "editorial_communications_total",
			Help: "Outgoing emails by communication type and status (queued, sent, failed, enqueue_failed)",
		},
		[]string{"type", "status"},
	)
	m.CommunicationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "editorial_communication_delivery_duration_seconds",
			Help:    "SMTP delivery time by communication type",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"type"},
	)

	m.CacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "editorial_cache_lookups_total",
			Help: "Cache lookups by cache name and result (hit, miss, error)",
		},
		[]string{"cache", "result"},
	)

	m.DBPoolAcquiredConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "editorial_db_pool_acquired_connections",
		Help: "Connections currently checked out of the pool",
	})
	m.DBPoolTotalConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "editorial_db_pool_total_connections",
		Help: "Connections currently open in the pool",
	})
}

// Collect implements the prometheus.Collector interface.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.HTTPRequestsTotal.Collect(ch)
	m.HTTPRequestDuration.Collect(ch)
	m.TransitionsTotal.Collect(ch)
	m.SweepRunsTotal.Collect(ch)
	m.SweepExpiredTotal.Collect(ch)
	m.SweepDuration.Collect(ch)
	m.SweepLastRunSecond.Collect(ch)
	m.CommunicationsTotal.Collect(ch)
	m.CommunicationDuration.Collect(ch)
	m.CacheLookupsTotal.Collect(ch)
	m.DBPoolAcquiredConns.Collect(ch)
	m.DBPoolTotalConns.Collect(ch)
}

// Describe implements the prometheus.Collector interface.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.HTTPRequestsTotal.Describe(ch)
	m.HTTPRequestDuration.Describe(ch)
	m.TransitionsTotal.Describe(ch)
	m.SweepRunsTotal.Describe(ch)
	m.SweepExpiredTotal.Describe(ch)
	m.SweepDuration.Describe(ch)
	m.SweepLastRunSecond.Describe(ch)
	m.CommunicationsTotal.Describe(ch)
	m.CommunicationDuration.Describe(ch)
	m.CacheLookupsTotal.Describe(ch)
	m.DBPoolAcquiredConns.Describe(ch)
	m.DBPoolTotalConns.Describe(ch)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, fmt.Sprintf("%d", status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) RecordTransition(event, from, to string) {
	if m == nil {
		return
	}
	m.TransitionsTotal.WithLabelValues(event, from, to).Inc()
}

// RecordSweep records one expiry sweep run. outcome is ok, error or skipped.
func (m *Metrics) RecordSweep(trigger, outcome string, expired int, duration time.Duration) {
	if m == nil {
		return
	}
	m.SweepRunsTotal.WithLabelValues(trigger, outcome).Inc()
	if outcome == "skipped" {
		return
	}
	m.SweepExpiredTotal.Add(float64(expired))
	m.SweepDuration.Observe(duration.Seconds())
	m.SweepLastRunSecond.SetToCurrentTime()
}

func (m *Metrics) RecordCommunication(commType, status string) {
	if m == nil {
		return
	}
	m.CommunicationsTotal.WithLabelValues(commType, status).Inc()
}

func (m *Metrics) ObserveCommunicationDelivery(commType string, duration time.Duration) {
	if m == nil {
		return
	}
	m.CommunicationDuration.WithLabelValues(commType).Observe(duration.Seconds())
}

// RecordCacheLookup counts a lookup; result is hit, miss or error.
func (m *Metrics) RecordCacheLookup(cache, result string) {
	if m == nil {
		return
	}
	m.CacheLookupsTotal.WithLabelValues(cache, result).Inc()
}

func (m *Metrics) ObserveDBPool(acquired, total int32) {
	if m == nil {
		return
	}
	m.DBPoolAcquiredConns.Set(float64(acquired))
	m.DBPoolTotalConns.Set(float64(total))
}
