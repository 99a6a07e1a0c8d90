package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

// Request outcomes
const (
	outcomeOK           = "ok"
	outcomeInvalidInput = "invalid_input"
	outcomeInconsistent = "inconsistent_data"
	outcomeCanceled     = "canceled"
	outcomeError        = "error"
)

// RequestMetricsCollector records mediator requests (price table loads and quotes)
type RequestMetricsCollector struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	inFlight *prometheus.GaugeVec
}

// NewRequestMetricsCollector creates a new request metrics collector
func NewRequestMetricsCollector() *RequestMetricsCollector {
	return &RequestMetricsCollector{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Time to answer a price table or quote request",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"request"},
		),

		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Handled requests by type and outcome",
			},
			[]string{"request", "outcome"},
		),

		// A superseded quote can still be in flight while the next one starts
		inFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_in_flight",
				Help:      "Requests currently being handled",
			},
			[]string{"request"},
		),
	}
}

// Register registers all request metrics with the Prometheus registry
func (c *RequestMetricsCollector) Register() error {
	return register(c.duration, c.total, c.inFlight)
}

// Begin marks a request as started and returns the function that ends it
func (c *RequestMetricsCollector) Begin(request string) (end func(duration float64, err error)) {
	gauge := c.inFlight.WithLabelValues(request)
	gauge.Inc()
	return func(duration float64, err error) {
		gauge.Dec()
		c.duration.WithLabelValues(request).Observe(duration)
		c.total.WithLabelValues(request, outcome(err)).Inc()
	}
}

// outcome classifies a handler error for the outcome label
func outcome(err error) string {
	var inconsistent *shared.DataConsistencyError
	switch {
	case err == nil:
		return outcomeOK
	case shared.IsValidationError(err):
		return outcomeInvalidInput
	case errors.As(err, &inconsistent):
		return outcomeInconsistent
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcomeCanceled
	default:
		return outcomeError
	}
}
