package sheet

import (
	"github.com/andrescamacho/prun-ccc/internal/domain/market"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

// Status is the overall render state of the sheet
type Status string

const (
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusReady   Status = "ready"
)

// Row is one material line of the sheet
type Row struct {
	Ticker      market.Ticker `json:"ticker" yaml:"ticker"`
	Regular     *float64      `json:"regular_price" yaml:"regular_price"`
	Reduced     *float64      `json:"reduced_price" yaml:"reduced_price"`
	Computed    float64       `json:"computed" yaml:"computed"`
	Quantity    float64       `json:"quantity" yaml:"quantity"`
	Overridden  bool          `json:"overridden" yaml:"overridden"`
	ReducedCost float64       `json:"reduced_cost" yaml:"reduced_cost"`
	RegularCost float64       `json:"regular_cost" yaml:"regular_cost"`
	Priced      bool          `json:"priced" yaml:"priced"`

	ReducedPriced bool `json:"reduced_priced" yaml:"reduced_priced"`
}

// View is the rendered sheet
type View struct {
	Status       Status           `json:"status" yaml:"status"`
	Error        string           `json:"error,omitempty" yaml:"error,omitempty"`
	PlanError    string           `json:"plan_error,omitempty" yaml:"plan_error,omitempty"`
	PlanLoading  bool             `json:"plan_loading" yaml:"plan_loading"`
	QuoteID      string           `json:"quote_id,omitempty" yaml:"quote_id,omitempty"`
	Link         string           `json:"link,omitempty" yaml:"link,omitempty"`
	PlanetID     string           `json:"planet_id,omitempty" yaml:"planet_id,omitempty"`
	Rows         []Row            `json:"rows" yaml:"rows"`
	ReducedTotal float64          `json:"reduced_total" yaml:"reduced_total"`
	RegularTotal float64          `json:"regular_total" yaml:"regular_total"`
	Warnings     []shared.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Fragment     string           `json:"fragment" yaml:"fragment"`
}

// Render derives the view from the state without mutating it.
// Rows follow the price table's tickers; quantities of other tickers are not shown.
func Render(s *State) View {
	if s.prices == nil {
		if s.pricesErr != nil {
			return View{Status: StatusError, Error: "error loading prices: " + s.pricesErr.Error()}
		}
		return View{Status: StatusLoading}
	}

	effective := s.Effective()
	totals := market.Totalize(effective, s.prices)
	lines := make(map[market.Ticker]market.Line, len(totals.Lines))
	for _, line := range totals.Lines {
		lines[line.Ticker] = line
	}

	view := View{
		Status:       StatusReady,
		PlanLoading:  s.loading,
		ReducedTotal: totals.Reduced,
		RegularTotal: totals.Regular,
		Fragment:     EncodeFragment(effective),
	}
	if s.pricesErr != nil {
		view.Error = "error loading prices: " + s.pricesErr.Error()
	}
	if s.quoteErr != nil {
		view.PlanError = s.quoteErr.Error()
	}

	for _, ticker := range s.prices.Tickers() {
		price, _ := s.prices.Lookup(ticker)
		_, overridden := s.overrides[ticker]
		row := Row{
			Ticker:     ticker,
			Computed:   s.computed[ticker],
			Quantity:   effective[ticker],
			Overridden: overridden,
		}
		if v, ok := market.RegularPrice(price); ok {
			row.Regular = &v
		}
		if v, ok := market.ReducedPrice(price); ok {
			row.Reduced = &v
		}
		if line, ok := lines[ticker]; ok {
			row.Priced = line.Priced
			row.ReducedPriced = line.ReducedPriced
			row.ReducedCost = line.ReducedCost
			row.RegularCost = line.RegularCost
		}
		view.Rows = append(view.Rows, row)
	}

	view.Warnings = append(view.Warnings, s.pricesNotes...)
	if s.quote != nil {
		view.QuoteID = s.quote.ID
		view.Link = s.quote.Link
		view.PlanetID = s.quote.Planet.ID
		view.Warnings = append(view.Warnings, quoteWarningsWithoutPrices(s.quote.Warnings)...)
	}
	view.Warnings = append(view.Warnings, s.notes...)
	view.Warnings = append(view.Warnings, totals.Warnings...)

	return view
}

// quoteWarningsWithoutPrices drops missing_price warnings from the quote; they are
// recomputed from the effective quantities on every render
func quoteWarningsWithoutPrices(warnings []shared.Warning) []shared.Warning {
	out := make([]shared.Warning, 0, len(warnings))
	for _, w := range warnings {
		if w.Kind == shared.WarningMissingPrice {
			continue
		}
		out = append(out, w)
	}
	return out
}
