package market

import (
	"fmt"
	"sort"
	"strings"
)

const maxTickerLength = 5

// Ticker identifies a material, e.g. "MCG"
type Ticker string

// NewTicker normalizes s to upper case and validates it as a material code
func NewTicker(s string) (Ticker, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || len(s) > maxTickerLength {
		return "", fmt.Errorf("%w: %q", ErrInvalidTicker, s)
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", fmt.Errorf("%w: %q", ErrInvalidTicker, s)
		}
	}
	return Ticker(s), nil
}

// MustNewTicker panics on invalid input. Use it only for compile-time constants.
func MustNewTicker(s string) Ticker {
	t, err := NewTicker(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Ticker) String() string {
	return string(t)
}

// SortTickers sorts tickers in place, alphabetically
func SortTickers(tickers []Ticker) {
	sort.Slice(tickers, func(i, j int) bool { return tickers[i] < tickers[j] })
}

// Materials the environment rules add on top of a building's base costs
const (
	TickerMCG Ticker = "MCG" // mineral construction granulate, rocky surfaces
	TickerAEF Ticker = "AEF" // aerostat foundation, gaseous planets
	TickerHSE Ticker = "HSE" // hardened structural elements, high pressure
	TickerINS Ticker = "INS" // insulation, low temperature
)
