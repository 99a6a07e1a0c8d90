package helpers

import (
	"sort"

	"github.com/andrescamacho/prun-ccc/internal/domain/construction"
	"github.com/andrescamacho/prun-ccc/internal/domain/market"
)

// MustBuilding builds a catalog entry from ticker/amount pairs, panicking on invalid input
func MustBuilding(ticker string, area float64, costs map[string]float64) *construction.Building {
	tickers := make([]string, 0, len(costs))
	for t := range costs {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	amounts := make([]construction.MaterialAmount, 0, len(costs))
	for _, t := range tickers {
		amounts = append(amounts, construction.MaterialAmount{Ticker: market.MustNewTicker(t), Amount: costs[t]})
	}
	b, err := construction.NewBuilding(ticker, area, amounts)
	if err != nil {
		panic(err)
	}
	return b
}

// MustPlanLink parses a plan link on prunplanner.org, panicking on invalid input
func MustPlanLink(raw string) *construction.PlanLink {
	link, err := construction.ParsePlanLink(raw, "prunplanner.org")
	if err != nil {
		panic(err)
	}
	return link
}
