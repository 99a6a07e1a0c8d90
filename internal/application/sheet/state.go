package sheet

import (
	"strconv"
	"strings"

	"github.com/andrescamacho/prun-ccc/internal/application/planning"
	"github.com/andrescamacho/prun-ccc/internal/domain/market"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

// State is everything the sheet shows. Mutate it, then call Render.
type State struct {
	prices      *market.PriceTable
	pricesErr   error
	pricesNotes []shared.Warning

	quote     *planning.Quote
	quoteErr  error
	loading   bool
	computed  market.QuantityMap
	overrides market.QuantityMap

	notes []shared.Warning
}

// NewState creates an empty sheet waiting for prices
func NewState() *State {
	return &State{
		computed:  make(market.QuantityMap),
		overrides: make(market.QuantityMap),
	}
}

// SetPrices installs a freshly built price table
func (s *State) SetPrices(table *market.PriceTable, warnings []shared.Warning) {
	s.prices = table
	s.pricesErr = nil
	s.pricesNotes = warnings
}

// SetPricesError records a failed price load
func (s *State) SetPricesError(err error) {
	s.pricesErr = err
}

// Prices returns the current price table, nil before the first load
func (s *State) Prices() *market.PriceTable {
	return s.prices
}

// BeginQuote marks a plan submission as in flight
func (s *State) BeginQuote() {
	s.loading = true
	s.quoteErr = nil
}

// ApplyQuote replaces the computed quantities with quote's and drops every
// manual override, as a new plan starts from scratch
func (s *State) ApplyQuote(quote *planning.Quote) {
	s.quote = quote
	s.quoteErr = nil
	s.loading = false
	s.computed = quote.Quantities.Clone()
	s.overrides = make(market.QuantityMap)
	s.notes = nil
}

// SetQuoteError records a failed plan submission; the previous quantities stay
func (s *State) SetQuoteError(err error) {
	s.quoteErr = err
	s.loading = false
}

// SetOverride sets a manual quantity for ticker from user input.
// An empty value clears the override. Invalid input leaves the state unchanged.
func (s *State) SetOverride(rawTicker, rawValue string) error {
	ticker, err := s.trackedTicker(rawTicker)
	if err != nil {
		return err
	}

	rawValue = strings.TrimSpace(rawValue)
	if rawValue == "" {
		delete(s.overrides, ticker)
		return nil
	}

	amount, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		return shared.NewValidationError(ticker.String(), "quantity must be a number")
	}
	if err := market.ValidateQuantity(amount); err != nil {
		return shared.NewValidationError(ticker.String(), "quantity must be a non-negative number")
	}

	s.overrides[ticker] = amount
	return nil
}

// ClearOverride removes the manual quantity of ticker
func (s *State) ClearOverride(rawTicker string) error {
	return s.SetOverride(rawTicker, "")
}

// LoadFragment replaces the overrides with the quantities in fragment
func (s *State) LoadFragment(fragment string) []shared.Warning {
	var accept func(market.Ticker) bool
	if s.prices != nil {
		accept = s.prices.Tracks
	}
	overrides, warnings := ParseFragment(fragment, accept)
	s.overrides = overrides
	s.notes = warnings
	return warnings
}

// Effective returns computed quantities with the overrides applied
func (s *State) Effective() market.QuantityMap {
	out := s.computed.Clone()
	for ticker, amount := range s.overrides {
		out[ticker] = amount
	}
	return out
}

// Fragment serializes the effective quantities
func (s *State) Fragment() string {
	return EncodeFragment(s.Effective())
}

func (s *State) trackedTicker(raw string) (market.Ticker, error) {
	ticker, err := market.NewTicker(raw)
	if err != nil {
		return "", shared.NewValidationError("ticker", "invalid ticker "+strconv.Quote(raw))
	}
	if s.prices != nil && !s.prices.Tracks(ticker) {
		return "", shared.NewValidationError("ticker", ticker.String()+" is not a tracked material")
	}
	return ticker, nil
}
