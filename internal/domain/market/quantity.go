package market

import (
	"fmt"
	"math"
)

// QuantityMap holds the required amount per ticker. It is filled during
// aggregation and treated as read-only afterwards; use Clone before mutating a shared map.
type QuantityMap map[Ticker]float64

// Add accumulates amount for ticker
func (q QuantityMap) Add(ticker Ticker, amount float64) {
	q[ticker] += amount
}

// Clone returns an independent copy
func (q QuantityMap) Clone() QuantityMap {
	out := make(QuantityMap, len(q))
	for ticker, amount := range q {
		out[ticker] = amount
	}
	return out
}

// Tickers returns the keys in alphabetical order
func (q QuantityMap) Tickers() []Ticker {
	out := make([]Ticker, 0, len(q))
	for ticker := range q {
		out = append(out, ticker)
	}
	SortTickers(out)
	return out
}

// ValidateQuantity rejects negative, NaN and infinite amounts
func ValidateQuantity(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidQuantity, amount)
	}
	return nil
}
