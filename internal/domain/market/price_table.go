package market

// PriceTable maps the tracked tickers to their price state.
// It is immutable once built; every accessor returns copies.
type PriceTable struct {
	prices  map[Ticker]Price
	tickers []Ticker
}

// NewPriceTable creates a table from prices. A nil Price is stored as Unpriced.
func NewPriceTable(prices map[Ticker]Price) *PriceTable {
	table := &PriceTable{
		prices:  make(map[Ticker]Price, len(prices)),
		tickers: make([]Ticker, 0, len(prices)),
	}
	for ticker, price := range prices {
		if price == nil {
			price = Unpriced{}
		}
		table.prices[ticker] = price
		table.tickers = append(table.tickers, ticker)
	}
	SortTickers(table.tickers)
	return table
}

// Lookup returns the price state of ticker and whether the ticker is tracked
func (t *PriceTable) Lookup(ticker Ticker) (Price, bool) {
	if t == nil {
		return nil, false
	}
	p, ok := t.prices[ticker]
	return p, ok
}

// Tracks reports whether ticker belongs to the table's ticker set
func (t *PriceTable) Tracks(ticker Ticker) bool {
	_, ok := t.Lookup(ticker)
	return ok
}

// Tickers returns the tracked tickers in alphabetical order
func (t *PriceTable) Tickers() []Ticker {
	if t == nil {
		return nil
	}
	out := make([]Ticker, len(t.tickers))
	copy(out, t.tickers)
	return out
}

// Len returns the number of tracked tickers
func (t *PriceTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.tickers)
}

// UnpricedTickers lists tracked tickers without a regular price
func (t *PriceTable) UnpricedTickers() []Ticker {
	var out []Ticker
	for _, ticker := range t.Tickers() {
		if _, ok := RegularPrice(t.prices[ticker]); !ok {
			out = append(out, ticker)
		}
	}
	return out
}
