package market_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/prun-ccc/internal/domain/market"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

func TestBuildPriceTable_VolumeWeightedAverageOnMatchingExchanges(t *testing.T) {
	// Arrange
	records := []market.PriceRecord{
		{MaterialTicker: "MCG", ExchangeCode: "AI1", PriceAverage: 10, TradedYesterday: 2},
		{MaterialTicker: "MCG", ExchangeCode: "AI1", PriceAverage: 20, TradedYesterday: 2},
		{MaterialTicker: "MCG", ExchangeCode: "CI2", PriceAverage: 999, TradedYesterday: 5},
	}
	cfg := market.PriceTableConfig{
		Reduced:        map[market.Ticker]float64{"MCG": 9},
		ExchangeSuffix: "1",
	}

	// Act
	table, warnings := market.BuildPriceTable(records, cfg)

	// Assert
	assert.Empty(t, warnings)
	price, ok := table.Lookup("MCG")
	require.True(t, ok)
	assert.Equal(t, market.PricedWithReduced{Regular: 15, Reduced: 9}, price)
}

func TestBuildPriceTable_ZeroVolumeIsUnpricedNotNaN(t *testing.T) {
	// Arrange
	records := []market.PriceRecord{
		{MaterialTicker: "HSE", ExchangeCode: "NC2", PriceAverage: 5000, TradedYesterday: 10},
		{MaterialTicker: "HSE", ExchangeCode: "IC1", PriceAverage: 5000, TradedYesterday: 0},
	}
	cfg := market.PriceTableConfig{Extra: []market.Ticker{"HSE"}}

	// Act
	table, warnings := market.BuildPriceTable(records, cfg)

	// Assert
	price, ok := table.Lookup("HSE")
	require.True(t, ok)
	assert.Equal(t, market.Unpriced{}, price)
	regular, hasRegular := market.RegularPrice(price)
	assert.False(t, hasRegular)
	assert.False(t, math.IsNaN(regular))
	require.Len(t, warnings, 1)
	assert.Equal(t, shared.WarningMissingPrice, warnings[0].Kind)
	assert.Equal(t, "HSE", warnings[0].Subject)
}

func TestBuildPriceTable_ZeroVolumeKeepsConfiguredReducedPrice(t *testing.T) {
	// Arrange
	cfg := market.PriceTableConfig{Reduced: map[market.Ticker]float64{"BSE": 507}}

	// Act
	table, warnings := market.BuildPriceTable(nil, cfg)

	// Assert
	price, ok := table.Lookup("BSE")
	require.True(t, ok)
	assert.Equal(t, market.ReducedOnly{Reduced: 507}, price)
	_, hasRegular := market.RegularPrice(price)
	assert.False(t, hasRegular)
	reduced, hasReduced := market.EffectiveReducedPrice(price)
	assert.True(t, hasReduced)
	assert.Equal(t, 507.0, reduced)
	require.Len(t, warnings, 1)
	assert.Equal(t, shared.WarningMissingPrice, warnings[0].Kind)
	assert.Equal(t, "BSE", warnings[0].Subject)
}

func TestBuildPriceTable_TracksOnlyConfiguredTickers(t *testing.T) {
	// Arrange
	records := []market.PriceRecord{
		{MaterialTicker: "RAT", ExchangeCode: "NC1", PriceAverage: 100, TradedYesterday: 1000},
		{MaterialTicker: "AEF", ExchangeCode: "NC1", PriceAverage: 2000, TradedYesterday: 3},
	}

	// Act
	table, _ := market.BuildPriceTable(records, market.DefaultPriceTableConfig())

	// Assert
	assert.False(t, table.Tracks("RAT"))
	price, ok := table.Lookup(market.TickerAEF)
	require.True(t, ok)
	assert.Equal(t, market.Priced{Regular: 2000}, price)
	assert.Equal(t, 14, table.Len())
}

func TestBuildPriceTable_SkipsInvalidRecordsOfTrackedTickers(t *testing.T) {
	// Arrange
	records := []market.PriceRecord{
		{MaterialTicker: "BSE", ExchangeCode: "AI1", PriceAverage: 600, TradedYesterday: 10},
		{MaterialTicker: "BSE", ExchangeCode: "AI1", PriceAverage: math.NaN(), TradedYesterday: 10},
		{MaterialTicker: "BSE", ExchangeCode: "AI1", PriceAverage: 700, TradedYesterday: -1},
	}
	cfg := market.PriceTableConfig{Reduced: map[market.Ticker]float64{"BSE": 507}}

	// Act
	table, warnings := market.BuildPriceTable(records, cfg)

	// Assert
	price, _ := table.Lookup("BSE")
	assert.Equal(t, market.PricedWithReduced{Regular: 600, Reduced: 507}, price)
	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, shared.WarningInvalidRecord, w.Kind)
	}
}

func TestBuildPriceTable_DefaultSuffixWhenEmpty(t *testing.T) {
	// Arrange
	records := []market.PriceRecord{
		{MaterialTicker: "TRU", ExchangeCode: "CI1", PriceAverage: 180, TradedYesterday: 1},
		{MaterialTicker: "TRU", ExchangeCode: "CI2", PriceAverage: 500, TradedYesterday: 1},
	}
	cfg := market.PriceTableConfig{Reduced: map[market.Ticker]float64{"TRU": 170}}

	// Act
	table, _ := market.BuildPriceTable(records, cfg)

	// Assert
	price, _ := table.Lookup("TRU")
	regular, ok := market.RegularPrice(price)
	require.True(t, ok)
	assert.Equal(t, 180.0, regular)
}

func TestPriceTableConfig_TrackedTickersDeduplicatesExtras(t *testing.T) {
	cfg := market.PriceTableConfig{
		Reduced: map[market.Ticker]float64{"MCG": 9, "INS": 125},
		Extra:   []market.Ticker{"AEF", "MCG"},
	}

	assert.Equal(t, []market.Ticker{"AEF", "INS", "MCG"}, cfg.TrackedTickers())
}
