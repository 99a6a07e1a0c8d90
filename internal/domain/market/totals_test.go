package market_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/prun-ccc/internal/domain/market"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

func TestTotalize_ReducedFallsBackToRegular(t *testing.T) {
	// Arrange
	table := market.NewPriceTable(map[market.Ticker]market.Price{
		"X": market.Priced{Regular: 100},
	})
	quantities := market.QuantityMap{"X": 3}

	// Act
	totals := market.Totalize(quantities, table)

	// Assert
	assert.Equal(t, 300.0, totals.Reduced)
	assert.Equal(t, 300.0, totals.Regular)
	assert.Empty(t, totals.Warnings)
}

func TestTotalize_UsesReducedPriceWhenPresent(t *testing.T) {
	// Arrange
	table := market.NewPriceTable(map[market.Ticker]market.Price{
		"BSE": market.PricedWithReduced{Regular: 600, Reduced: 507},
		"MCG": market.Priced{Regular: 12.5},
	})
	quantities := market.QuantityMap{"BSE": 10, "MCG": 4}

	// Act
	totals := market.Totalize(quantities, table)

	// Assert
	assert.InDelta(t, 10*507+4*12.5, totals.Reduced, 1e-9)
	assert.InDelta(t, 10*600+4*12.5, totals.Regular, 1e-9)
	require.Len(t, totals.Lines, 2)
	assert.Equal(t, market.Ticker("BSE"), totals.Lines[0].Ticker)
	assert.Equal(t, 5070.0, totals.Lines[0].ReducedCost)
	assert.Equal(t, 6000.0, totals.Lines[0].RegularCost)
}

func TestTotalize_UnpricedTickerIsExcludedWithWarning(t *testing.T) {
	// Arrange
	table := market.NewPriceTable(map[market.Ticker]market.Price{
		"HSE": market.Unpriced{},
		"MCG": market.Priced{Regular: 10},
	})
	quantities := market.QuantityMap{"HSE": 1, "MCG": 2}

	// Act
	totals := market.Totalize(quantities, table)

	// Assert
	assert.Equal(t, 20.0, totals.Reduced)
	assert.Equal(t, 20.0, totals.Regular)
	require.Len(t, totals.Warnings, 1)
	assert.Equal(t, shared.WarningMissingPrice, totals.Warnings[0].Kind)
	assert.Equal(t, "HSE", totals.Warnings[0].Subject)
	assert.False(t, totals.Lines[0].Priced)
	assert.False(t, totals.Lines[0].ReducedPriced)
}

func TestTotalize_ReducedOnlyCountsTowardsReducedTotal(t *testing.T) {
	// Arrange
	table := market.NewPriceTable(map[market.Ticker]market.Price{
		"BSE": market.ReducedOnly{Reduced: 507},
		"MCG": market.Priced{Regular: 10},
	})
	quantities := market.QuantityMap{"BSE": 10, "MCG": 2}

	// Act
	totals := market.Totalize(quantities, table)

	// Assert
	assert.Equal(t, 5090.0, totals.Reduced)
	assert.Equal(t, 20.0, totals.Regular)
	require.Len(t, totals.Warnings, 1)
	assert.Equal(t, "BSE", totals.Warnings[0].Subject)
	require.Len(t, totals.Lines, 2)
	bse := totals.Lines[0]
	assert.Equal(t, market.Ticker("BSE"), bse.Ticker)
	assert.False(t, bse.Priced)
	assert.True(t, bse.ReducedPriced)
	assert.Equal(t, 5070.0, bse.ReducedCost)
	assert.Zero(t, bse.RegularCost)
}

func TestTotalize_EmptyMap(t *testing.T) {
	totals := market.Totalize(market.QuantityMap{}, market.NewPriceTable(nil))

	assert.Zero(t, totals.Reduced)
	assert.Zero(t, totals.Regular)
	assert.Empty(t, totals.Lines)
}
