package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// circuitStates are the gauge values of ccc_cli_upstream_circuit_state
var circuitStates = map[string]float64{
	"closed":    0,
	"half_open": 1,
	"open":      2,
}

// APIMetricsCollector records calls to the price feed and the planning API.
// Every series is keyed by the client's endpoint label (prices, buildings, planet, plan).
type APIMetricsCollector struct {
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	retries       *prometheus.CounterVec
	throttled     *prometheus.HistogramVec
	circuitState  *prometheus.GaugeVec
	circuitEvents *prometheus.CounterVec
}

// NewAPIMetricsCollector creates a new API metrics collector
func NewAPIMetricsCollector() *APIMetricsCollector {
	return &APIMetricsCollector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_requests_total",
				Help:      "Upstream responses by endpoint and status class",
			},
			[]string{"endpoint", "class"},
		),

		// Catalog and price feed downloads can take seconds
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_request_duration_seconds",
				Help:      "Upstream response time by endpoint",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"endpoint"},
		),

		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_retries_total",
				Help:      "Retried upstream attempts by endpoint and reason",
			},
			[]string{"endpoint", "reason"},
		),

		throttled: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_throttle_seconds",
				Help:      "Time a request waited on the client rate limiter",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"endpoint"},
		),

		circuitState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_circuit_state",
				Help:      "Circuit breaker state per endpoint (0 closed, 1 half open, 2 open)",
			},
			[]string{"endpoint"},
		),

		circuitEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_circuit_transitions_total",
				Help:      "Circuit breaker transitions per endpoint and target state",
			},
			[]string{"endpoint", "to"},
		),
	}
}

// Register registers all API metrics with the Prometheus registry
func (c *APIMetricsCollector) Register() error {
	return register(
		c.requests,
		c.latency,
		c.retries,
		c.throttled,
		c.circuitState,
		c.circuitEvents,
	)
}

// RecordAPIRequest records one upstream response
func (c *APIMetricsCollector) RecordAPIRequest(endpoint string, statusCode int, duration float64) {
	c.requests.WithLabelValues(endpoint, statusClass(statusCode)).Inc()
	c.latency.WithLabelValues(endpoint).Observe(duration)
}

// RecordAPIRetry records a retried attempt
func (c *APIMetricsCollector) RecordAPIRetry(endpoint, reason string) {
	c.retries.WithLabelValues(endpoint, reason).Inc()
}

// RecordRateLimitWait records time spent waiting for the rate limiter
func (c *APIMetricsCollector) RecordRateLimitWait(endpoint string, duration float64) {
	c.throttled.WithLabelValues(endpoint).Observe(duration)
}

// RecordCircuitTransition records a breaker moving between states
func (c *APIMetricsCollector) RecordCircuitTransition(endpoint, from, to string) {
	c.circuitEvents.WithLabelValues(endpoint, to).Inc()
	if v, ok := circuitStates[to]; ok {
		c.circuitState.WithLabelValues(endpoint).Set(v)
	}
}

// statusClass folds a status code into 2xx/3xx/4xx/5xx
func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "other"
	}
	return fmt.Sprintf("%dxx", code/100)
}
