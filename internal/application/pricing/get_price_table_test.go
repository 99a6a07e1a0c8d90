package pricing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/prun-ccc/internal/application/pricing"
	"github.com/andrescamacho/prun-ccc/internal/domain/market"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
	"github.com/andrescamacho/prun-ccc/test/helpers"
)

func TestGetPriceTableHandler_BuildsTableFromFeed(t *testing.T) {
	// Arrange
	feed := helpers.NewMockPriceFeed()
	feed.AddRecord("MCG", "AI1", 10, 2)
	feed.AddRecord("MCG", "NC1", 20, 2)
	feed.AddRecord("MCG", "CI2", 999, 5)

	cfg := market.PriceTableConfig{
		Reduced: map[market.Ticker]float64{"MCG": 9},
		Extra:   []market.Ticker{"AEF"},
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	handler := pricing.NewGetPriceTableHandler(feed, cfg, shared.NewMockClock(now))

	// Act
	resp, err := handler.Handle(context.Background(), &pricing.GetPriceTableQuery{})

	// Assert
	require.NoError(t, err)
	result := resp.(*pricing.GetPriceTableResponse)
	assert.Equal(t, now, result.FetchedAt)

	price, ok := result.Table.Lookup("MCG")
	require.True(t, ok)
	assert.Equal(t, market.PricedWithReduced{Regular: 15, Reduced: 9}, price)

	aef, ok := result.Table.Lookup("AEF")
	require.True(t, ok)
	assert.Equal(t, market.Unpriced{}, aef)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, shared.WarningMissingPrice, result.Warnings[0].Kind)
}

func TestGetPriceTableHandler_WrapsFeedErrors(t *testing.T) {
	feed := helpers.NewMockPriceFeed()
	feed.SetError(errors.New("connection refused"))
	handler := pricing.NewGetPriceTableHandler(feed, market.DefaultPriceTableConfig(), nil)

	_, err := handler.Handle(context.Background(), &pricing.GetPriceTableQuery{})

	require.Error(t, err)
	assert.Equal(t, "error loading prices: connection refused", err.Error())
}

func TestGetPriceTableHandler_RejectsOtherRequests(t *testing.T) {
	handler := pricing.NewGetPriceTableHandler(helpers.NewMockPriceFeed(), market.DefaultPriceTableConfig(), nil)

	_, err := handler.Handle(context.Background(), "nope")

	assert.Error(t, err)
}
