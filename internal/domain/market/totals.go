package market

import "github.com/andrescamacho/prun-ccc/internal/domain/shared"

// Line is the cost of one ticker in a quantity map
type Line struct {
	Ticker      Ticker
	Quantity    float64
	Price       Price
	ReducedCost float64
	RegularCost float64
	// Priced reports a regular price; ReducedPriced an effective reduced one
	Priced        bool
	ReducedPriced bool
}

// Totals is the result of pricing a quantity map
type Totals struct {
	Reduced  float64
	Regular  float64
	Lines    []Line
	Warnings []shared.Warning
}

// Totalize prices every ticker of q against table. The reduced total uses the
// reduced price where the ticker has one and the regular price otherwise.
// Tickers without a regular price are left out of the regular total and
// reported as warnings; they still count towards the reduced total when a
// reduced price is known. No rounding is applied.
func Totalize(q QuantityMap, table *PriceTable) Totals {
	var totals Totals
	for _, ticker := range q.Tickers() {
		quantity := q[ticker]
		line := Line{Ticker: ticker, Quantity: quantity}

		price, tracked := table.Lookup(ticker)
		if !tracked {
			price = Unpriced{}
		}
		line.Price = price

		regular, hasRegular := RegularPrice(price)
		effective, hasReduced := EffectiveReducedPrice(price)
		if hasReduced {
			line.ReducedPriced = true
			line.ReducedCost = quantity * effective
			totals.Reduced += line.ReducedCost
		}
		if !hasRegular {
			if quantity != 0 {
				totals.Warnings = append(totals.Warnings, shared.NewWarning(shared.WarningMissingPrice, ticker.String(),
					"no regular price; %v units excluded from the regular total", quantity))
			}
			totals.Lines = append(totals.Lines, line)
			continue
		}

		line.Priced = true
		line.RegularCost = quantity * regular
		totals.Regular += line.RegularCost
		totals.Lines = append(totals.Lines, line)
	}
	return totals
}
