package planning_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/prun-ccc/internal/application/planning"
	"github.com/andrescamacho/prun-ccc/internal/domain/construction"
	"github.com/andrescamacho/prun-ccc/internal/domain/market"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
	"github.com/andrescamacho/prun-ccc/internal/infrastructure/config"
	"github.com/andrescamacho/prun-ccc/test/helpers"
)

const planURL = "https://prunplanner.org/shared/base-1"

func quotePrices() *market.PriceTable {
	return market.NewPriceTable(map[market.Ticker]market.Price{
		"BSE": market.PricedWithReduced{Regular: 1500, Reduced: 1000},
		"BBH": market.PricedWithReduced{Regular: 2000, Reduced: 1500},
		"MCG": market.PricedWithReduced{Regular: 20, Reduced: 15},
		"AEF": market.Priced{Regular: 2000},
		"HSE": market.Unpriced{},
	})
}

func newQuoteFixture(t *testing.T) (*planning.CalculateQuoteHandler, *helpers.MockPlanner) {
	t.Helper()
	planner := helpers.NewMockPlanner()
	planner.AddBuilding(helpers.MustBuilding("CM", 25, map[string]float64{"BSE": 12, "BBH": 12}))
	planner.AddBuilding(helpers.MustBuilding("HB1", 3, map[string]float64{"BSE": 10}))
	planner.AddPlanet(construction.Planet{ID: "rocky-1", Rocky: true, Pressure: 1, Temperature: 0})
	planner.AddPlanet(construction.Planet{ID: "gas-1", Rocky: false, Pressure: 3, Temperature: 0})
	planner.AddPlan("/shared/base-1", &construction.Plan{
		PlanetID:  "rocky-1",
		Buildings: []construction.PlanEntry{{Ticker: "HB1", Count: 2}},
	})

	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	handler := planning.NewCalculateQuoteHandler(
		planner, planner,
		planning.NewCatalogCache(planner),
		config.NewValidator(),
		planning.QuoteOptions{PlanHost: "prunplanner.org", CoreBuilding: "CM"},
		shared.NewMockClock(now),
	)
	return handler, planner
}

func TestCalculateQuote_WithoutCoreBuilding(t *testing.T) {
	// Arrange
	handler, _ := newQuoteFixture(t)

	// Act
	resp, err := handler.Handle(context.Background(), &planning.CalculateQuoteQuery{
		Link: planURL, Prices: quotePrices(), SkipCore: true,
	})

	// Assert
	require.NoError(t, err)
	quote := resp.(*planning.Quote)
	assert.Equal(t, market.QuantityMap{"BSE": 20, "MCG": 24}, quote.Quantities)
	assert.Equal(t, 20*1000.0+24*15.0, quote.Totals.Reduced)
	assert.Equal(t, 20*1500.0+24*20.0, quote.Totals.Regular)
	assert.Empty(t, quote.Warnings)
	assert.NotEmpty(t, quote.ID)
	assert.Equal(t, "rocky-1", quote.Planet.ID)
}

func TestCalculateQuote_AddsCoreBuildingOnce(t *testing.T) {
	handler, _ := newQuoteFixture(t)

	resp, err := handler.Handle(context.Background(), &planning.CalculateQuoteQuery{Link: planURL, Prices: quotePrices()})

	require.NoError(t, err)
	quote := resp.(*planning.Quote)
	assert.Equal(t, market.QuantityMap{"BSE": 32, "BBH": 12, "MCG": 124}, quote.Quantities)
}

func TestCalculateQuote_UnpricedMaterialIsWarnedAndExcluded(t *testing.T) {
	// Arrange
	handler, planner := newQuoteFixture(t)
	planner.AddPlan("/shared/gas", &construction.Plan{
		PlanetID:  "gas-1",
		Buildings: []construction.PlanEntry{{Ticker: "HB1", Count: 1}, {Ticker: "HB9", Count: 1}},
	})

	// Act
	resp, err := handler.Handle(context.Background(), &planning.CalculateQuoteQuery{
		Link: "https://prunplanner.org/shared/gas", Prices: quotePrices(), SkipCore: true,
	})

	// Assert
	require.NoError(t, err)
	quote := resp.(*planning.Quote)
	assert.Equal(t, market.QuantityMap{"BSE": 10, "AEF": 1, "HSE": 1}, quote.Quantities)
	assert.Equal(t, 10*1000.0+2000.0, quote.Totals.Reduced)

	kinds := map[shared.WarningKind][]string{}
	for _, w := range quote.Warnings {
		kinds[w.Kind] = append(kinds[w.Kind], w.Subject)
	}
	assert.Equal(t, []string{"HB9"}, kinds[shared.WarningMissingBuilding])
	assert.Equal(t, []string{"HSE"}, kinds[shared.WarningMissingPrice])
}

func TestCalculateQuote_SkippedCatalogEntriesAreWarnings(t *testing.T) {
	// Arrange
	handler, planner := newQuoteFixture(t)
	planner.AddCatalogWarning(shared.NewWarning(shared.WarningInvalidCatalogEntry, "XYZ", "cost line %q skipped", "SUPERLONG"))

	// Act
	resp, err := handler.Handle(context.Background(), &planning.CalculateQuoteQuery{
		Link: planURL, Prices: quotePrices(), SkipCore: true,
	})

	// Assert
	require.NoError(t, err)
	quote := resp.(*planning.Quote)
	assert.Equal(t, market.QuantityMap{"BSE": 20, "MCG": 24}, quote.Quantities)
	require.Len(t, quote.Warnings, 1)
	assert.Equal(t, shared.WarningInvalidCatalogEntry, quote.Warnings[0].Kind)
	assert.Equal(t, "XYZ", quote.Warnings[0].Subject)
}

func TestCalculateQuote_RejectsInvalidLinks(t *testing.T) {
	tests := []struct {
		name string
		link string
	}{
		{name: "empty", link: ""},
		{name: "not a url", link: "base-1"},
		{name: "wrong host", link: "https://example.com/shared/base-1"},
		{name: "wrong scheme", link: "ftp://prunplanner.org/shared/base-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, planner := newQuoteFixture(t)

			_, err := handler.Handle(context.Background(), &planning.CalculateQuoteQuery{Link: tt.link, Prices: quotePrices()})

			require.Error(t, err)
			assert.True(t, shared.IsValidationError(err), "got %v", err)
			assert.Equal(t, 0, planner.CatalogCalls())
		})
	}
}

func TestCalculateQuote_RequiresPrices(t *testing.T) {
	handler, _ := newQuoteFixture(t)

	_, err := handler.Handle(context.Background(), &planning.CalculateQuoteQuery{Link: planURL})

	assert.ErrorIs(t, err, planning.ErrPricesNotLoaded)
}

func TestCalculateQuote_FetchFailureIsReported(t *testing.T) {
	handler, _ := newQuoteFixture(t)

	_, err := handler.Handle(context.Background(), &planning.CalculateQuoteQuery{
		Link: "https://prunplanner.org/shared/unknown", Prices: quotePrices(),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error loading plan:")
	assert.False(t, shared.IsValidationError(err))
}

func TestCalculateQuote_SlowOlderSubmissionIsDroppedBySession(t *testing.T) {
	// Arrange
	handler, planner := newQuoteFixture(t)
	planner.AddPlan("/shared/base-2", &construction.Plan{
		PlanetID:  "gas-1",
		Buildings: []construction.PlanEntry{{Ticker: "HB1", Count: 1}},
	})
	release := planner.GatePlan("/shared/base-1")
	defer release()

	session := planning.NewSession[*planning.Quote]()
	type outcome struct {
		seq   uint64
		quote *planning.Quote
		err   error
	}
	results := make(chan outcome, 2)
	submit := func(link string) {
		seq := session.Begin()
		go func() {
			resp, err := handler.Handle(context.Background(), &planning.CalculateQuoteQuery{
				Link: link, Prices: quotePrices(), SkipCore: true,
			})
			var quote *planning.Quote
			if err == nil {
				quote = resp.(*planning.Quote)
			}
			results <- outcome{seq: seq, quote: quote, err: err}
		}()
	}

	// Act
	submit(planURL)
	submit("https://prunplanner.org/shared/base-2")

	newer := <-results
	require.NoError(t, newer.err)
	assert.True(t, session.Commit(newer.seq, newer.quote))

	release()
	older := <-results
	require.NoError(t, older.err)
	kept := session.Commit(older.seq, older.quote)

	// Assert
	assert.False(t, kept)
	latest, ok, err := session.Latest()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "gas-1", latest.Planet.ID)
	assert.False(t, session.Pending())
}
