package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Upstream gateway metrics
	GatewayRequests *prometheus.CounterVec

	// Derivative pipeline metrics
	PollCycles   *prometheus.CounterVec
	PollAttempts prometheus.Histogram

	// Session metrics
	ActiveSessions prometheus.Gauge
}

// NewCollector creates a new metrics collector with the given namespace
func NewCollector(namespace string) *Collector {
	// Singleton so repeated construction in tests cannot double-register.
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	gatewayRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_requests_total",
			Help:      "Total number of upstream gateway requests",
		},
		[]string{"operation", "outcome"},
	)

	pollCycles := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_cycles_total",
			Help:      "Total number of derivative poll cycles by outcome",
		},
		[]string{"outcome"},
	)

	pollAttempts := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_cycle_attempts",
			Help:      "Requests issued per derivative poll cycle",
			Buckets:   []float64{1, 2, 5, 10, 30, 60, 100, 150},
		},
	)

	activeSessions := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of live explorer sessions",
		},
	)

	registry.MustRegister(
		httpRequests, httpDuration, gatewayRequests,
		pollCycles, pollAttempts, activeSessions,
	)

	globalCollector = &Collector{
		registry:        registry,
		HTTPRequests:    httpRequests,
		HTTPDuration:    httpDuration,
		GatewayRequests: gatewayRequests,
		PollCycles:      pollCycles,
		PollAttempts:    pollAttempts,
		ActiveSessions:  activeSessions,
	}
	return globalCollector
}

// Handler exposes the collector's registry for the /metrics endpoint
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one handled HTTP request
func (c *Collector) ObserveHTTP(method, route, status string, seconds float64) {
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(seconds)
}

// ObserveGateway records one upstream request
func (c *Collector) ObserveGateway(operation, outcome string) {
	c.GatewayRequests.WithLabelValues(operation, outcome).Inc()
}

// ObservePollCycle records a finished poll cycle and its attempt count
func (c *Collector) ObservePollCycle(outcome string, attempts int) {
	c.PollCycles.WithLabelValues(outcome).Inc()
	c.PollAttempts.Observe(float64(attempts))
}

// SetActiveSessions updates the live session gauge
func (c *Collector) SetActiveSessions(n int) {
	c.ActiveSessions.Set(float64(n))
}
