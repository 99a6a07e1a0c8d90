package market

import (
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

// DefaultExchangeSuffix selects the exchanges whose codes end in "1"
const DefaultExchangeSuffix = "1"

// PriceTableConfig describes which tickers a price table tracks and where prices come from
type PriceTableConfig struct {
	// Reduced holds the cooperative-exchange prices. Its tickers are always tracked.
	Reduced map[Ticker]float64

	// Extra lists tracked tickers that have no reduced price
	Extra []Ticker

	// ExchangeSuffix filters feed records by exchange code
	ExchangeSuffix string
}

// DefaultReducedPrices returns the cooperative-exchange price list
func DefaultReducedPrices() map[Ticker]float64 {
	return map[Ticker]float64{
		"BSE": 507,
		"BBH": 801,
		"BDE": 1900,
		"BTA": 1125,
		"LSE": 3086,
		"LBH": 1577,
		"LDE": 9869,
		"LTA": 3037,
		"MCG": 9,
		"TRU": 170,
		"PSL": 1000,
		"INS": 125,
	}
}

// DefaultPriceTableConfig tracks the reduced-price tickers plus the environment materials without one
func DefaultPriceTableConfig() PriceTableConfig {
	return PriceTableConfig{
		Reduced:        DefaultReducedPrices(),
		Extra:          []Ticker{TickerAEF, TickerHSE},
		ExchangeSuffix: DefaultExchangeSuffix,
	}
}

// TrackedTickers returns the union of reduced-price tickers and extras, sorted
func (c PriceTableConfig) TrackedTickers() []Ticker {
	seen := make(map[Ticker]struct{}, len(c.Reduced)+len(c.Extra))
	out := make([]Ticker, 0, len(c.Reduced)+len(c.Extra))
	for ticker := range c.Reduced {
		seen[ticker] = struct{}{}
		out = append(out, ticker)
	}
	for _, ticker := range c.Extra {
		if _, ok := seen[ticker]; ok {
			continue
		}
		seen[ticker] = struct{}{}
		out = append(out, ticker)
	}
	SortTickers(out)
	return out
}

type volumeSum struct {
	value  float64
	volume float64
}

// BuildPriceTable computes, per tracked ticker, the volume-weighted average price over
// records on the configured exchanges:
//
//	sum(PriceAverage * TradedYesterday) / sum(TradedYesterday)
//
// A ticker with zero matching volume keeps its reduced price as ReducedOnly, or is
// stored as Unpriced when it has none; either way it is reported as a warning.
// Invalid records of tracked tickers are skipped with a warning.
func BuildPriceTable(records []PriceRecord, cfg PriceTableConfig) (*PriceTable, []shared.Warning) {
	suffix := cfg.ExchangeSuffix
	if suffix == "" {
		suffix = DefaultExchangeSuffix
	}

	tracked := cfg.TrackedTickers()
	sums := make(map[Ticker]*volumeSum, len(tracked))
	for _, ticker := range tracked {
		sums[ticker] = &volumeSum{}
	}

	var warnings []shared.Warning
	for _, record := range records {
		sum, ok := sums[Ticker(record.MaterialTicker)]
		if !ok {
			continue
		}
		if !record.Valid() {
			warnings = append(warnings, shared.NewWarning(shared.WarningInvalidRecord, record.MaterialTicker,
				"skipped record on %q (average %v, volume %v)", record.ExchangeCode, record.PriceAverage, record.TradedYesterday))
			continue
		}
		if !record.OnExchange(suffix) {
			continue
		}
		sum.value += record.PriceAverage * record.TradedYesterday
		sum.volume += record.TradedYesterday
	}

	prices := make(map[Ticker]Price, len(tracked))
	for _, ticker := range tracked {
		sum := sums[ticker]
		if sum.volume <= 0 {
			if reduced, ok := cfg.Reduced[ticker]; ok {
				prices[ticker] = ReducedOnly{Reduced: reduced}
				warnings = append(warnings, shared.NewWarning(shared.WarningMissingPrice, ticker.String(),
					"no traded volume on exchanges ending in %q, only the reduced price is known", suffix))
				continue
			}
			prices[ticker] = Unpriced{}
			warnings = append(warnings, shared.NewWarning(shared.WarningMissingPrice, ticker.String(),
				"no traded volume on exchanges ending in %q", suffix))
			continue
		}

		regular := sum.value / sum.volume
		if reduced, ok := cfg.Reduced[ticker]; ok {
			prices[ticker] = PricedWithReduced{Regular: regular, Reduced: reduced}
		} else {
			prices[ticker] = Priced{Regular: regular}
		}
	}

	return NewPriceTable(prices), warnings
}
