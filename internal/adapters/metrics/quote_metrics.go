package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// QuoteMetricsCollector records cost quote results and data quality
type QuoteMetricsCollector struct {
	quotesTotal     prometheus.Counter
	quoteReduced    prometheus.Gauge
	quoteRegular    prometheus.Gauge
	quoteLines      prometheus.Histogram
	warningsTotal   *prometheus.CounterVec
	catalogLookups  *prometheus.CounterVec
	trackedTickers  prometheus.Gauge
	unpricedTickers prometheus.Gauge
	staleResults    prometheus.Counter
}

// NewQuoteMetricsCollector creates a new quote metrics collector
func NewQuoteMetricsCollector() *QuoteMetricsCollector {
	return &QuoteMetricsCollector{
		quotesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "quotes_total",
			Help:      "Total number of cost quotes computed",
		}),
		quoteReduced: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "quote_reduced_total",
			Help:      "Reduced-price total of the last quote",
		}),
		quoteRegular: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "quote_regular_total",
			Help:      "Market-price total of the last quote",
		}),
		quoteLines: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "quote_lines",
			Help:      "Number of priced material lines per quote",
			Buckets:   []float64{1, 2, 4, 8, 12, 16},
		}),
		warningsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "warnings_total",
				Help:      "Data quality warnings by kind",
			},
			[]string{"kind"},
		),
		catalogLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "catalog_lookups_total",
				Help:      "Building catalog cache lookups by result",
			},
			[]string{"result"},
		),
		trackedTickers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "price_table_tickers",
			Help:      "Tickers tracked by the current price table",
		}),
		unpricedTickers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "price_table_unpriced_tickers",
			Help:      "Tracked tickers without a usable market price",
		}),
		staleResults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "stale_results_total",
			Help:      "Results dropped because a newer submission had already completed",
		}),
	}
}

// Register registers all quote metrics with the Prometheus registry
func (c *QuoteMetricsCollector) Register() error {
	return register(
		c.quotesTotal,
		c.quoteReduced,
		c.quoteRegular,
		c.quoteLines,
		c.warningsTotal,
		c.catalogLookups,
		c.trackedTickers,
		c.unpricedTickers,
		c.staleResults,
	)
}

// RecordQuote records a computed quote
func (c *QuoteMetricsCollector) RecordQuote(reduced, regular float64, lines int) {
	c.quotesTotal.Inc()
	c.quoteReduced.Set(reduced)
	c.quoteRegular.Set(regular)
	c.quoteLines.Observe(float64(lines))
}

// RecordWarning counts a warning by kind
func (c *QuoteMetricsCollector) RecordWarning(kind string) {
	c.warningsTotal.WithLabelValues(kind).Inc()
}

// RecordCatalogLookup counts a catalog cache hit or miss
func (c *QuoteMetricsCollector) RecordCatalogLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.catalogLookups.WithLabelValues(result).Inc()
}

// RecordPriceTable records the size of a freshly built price table
func (c *QuoteMetricsCollector) RecordPriceTable(tracked, unpriced int) {
	c.trackedTickers.Set(float64(tracked))
	c.unpricedTickers.Set(float64(unpriced))
}

// RecordStaleResult counts a result dropped by the sequence guard
func (c *QuoteMetricsCollector) RecordStaleResult() {
	c.staleResults.Inc()
}
