package market

import (
	"math"
	"strings"
)

// PriceRecord is one row of the remote market price feed:
// the average price and yesterday's traded volume of a ticker on one exchange
type PriceRecord struct {
	MaterialTicker  string
	ExchangeCode    string
	PriceAverage    float64
	TradedYesterday float64
}

// Valid reports whether the record can take part in a volume-weighted average
func (r PriceRecord) Valid() bool {
	if r.MaterialTicker == "" || r.ExchangeCode == "" {
		return false
	}
	if math.IsNaN(r.PriceAverage) || math.IsInf(r.PriceAverage, 0) || r.PriceAverage < 0 {
		return false
	}
	if math.IsNaN(r.TradedYesterday) || math.IsInf(r.TradedYesterday, 0) || r.TradedYesterday < 0 {
		return false
	}
	return true
}

// OnExchange reports whether the record's exchange code ends with suffix
func (r PriceRecord) OnExchange(suffix string) bool {
	return strings.HasSuffix(r.ExchangeCode, suffix)
}
