package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const (
	// Namespace for all metrics
	namespace = "ccc"
	// Subsystem for command-line metrics
	subsystem = "cli"
)

var (
	// Registry is the global Prometheus registry for all metrics.
	// Nil means metrics are disabled and every collector becomes a no-op.
	Registry *prometheus.Registry

	// globalQuoteCollector is set by SetGlobalQuoteCollector when metrics are enabled
	globalQuoteCollector QuoteMetricsRecorder
)

// APIMetricsRecorder is what the HTTP client reports through
type APIMetricsRecorder interface {
	RecordAPIRequest(endpoint string, statusCode int, duration float64)
	RecordAPIRetry(endpoint, reason string)
	RecordRateLimitWait(endpoint string, duration float64)
	RecordCircuitTransition(endpoint, from, to string)
}

// QuoteMetricsRecorder is what the quote pipeline reports through
type QuoteMetricsRecorder interface {
	RecordQuote(reduced, regular float64, lines int)
	RecordWarning(kind string)
	RecordCatalogLookup(hit bool)
	RecordPriceTable(tracked, unpriced int)
	RecordStaleResult()
}

// InitRegistry initializes the Prometheus registry.
// Should be called once at startup if metrics are enabled.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// ResetRegistry disables metrics again
func ResetRegistry() {
	Registry = nil
	globalQuoteCollector = nil
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// WriteText gathers the registry and writes it in the Prometheus text format
func WriteText(w io.Writer) error {
	if Registry == nil {
		return nil
	}

	families, err := Registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return fmt.Errorf("failed to encode metric %s: %w", family.GetName(), err)
		}
	}
	return nil
}

// register adds collectors to the registry, skipping when metrics are disabled
func register(collectors ...prometheus.Collector) error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	for _, c := range collectors {
		if err := Registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// SetGlobalQuoteCollector sets the collector the package-level Record functions use
func SetGlobalQuoteCollector(collector QuoteMetricsRecorder) {
	globalQuoteCollector = collector
}

// RecordQuote records a computed quote globally
func RecordQuote(reduced, regular float64, lines int) {
	if globalQuoteCollector != nil {
		globalQuoteCollector.RecordQuote(reduced, regular, lines)
	}
}

// RecordWarning records a warning globally
func RecordWarning(kind string) {
	if globalQuoteCollector != nil {
		globalQuoteCollector.RecordWarning(kind)
	}
}

// RecordCatalogLookup records a catalog cache lookup globally
func RecordCatalogLookup(hit bool) {
	if globalQuoteCollector != nil {
		globalQuoteCollector.RecordCatalogLookup(hit)
	}
}

// RecordPriceTable records price table size globally
func RecordPriceTable(tracked, unpriced int) {
	if globalQuoteCollector != nil {
		globalQuoteCollector.RecordPriceTable(tracked, unpriced)
	}
}

// RecordStaleResult records a dropped out-of-order result globally
func RecordStaleResult() {
	if globalQuoteCollector != nil {
		globalQuoteCollector.RecordStaleResult()
	}
}
