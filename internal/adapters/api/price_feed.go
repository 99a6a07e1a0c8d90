package api

import (
	"context"
	"fmt"
	"math"

	"github.com/andrescamacho/prun-ccc/internal/domain/market"
)

// priceRecordDTO is one row of the market price feed
type priceRecordDTO struct {
	MaterialTicker  string   `json:"MaterialTicker"`
	ExchangeCode    string   `json:"ExchangeCode"`
	PriceAverage    *float64 `json:"PriceAverage"`
	TradedYesterday *float64 `json:"TradedYesterday"`
}

// PriceFeedClient reads per-exchange price rows from the market price feed
type PriceFeedClient struct {
	client *Client
	url    string
}

// NewPriceFeedClient creates a price feed reader for url
func NewPriceFeedClient(client *Client, url string) *PriceFeedClient {
	return &PriceFeedClient{client: client, url: url}
}

// FetchPriceRecords implements market.PriceFeed
func (f *PriceFeedClient) FetchPriceRecords(ctx context.Context) ([]market.PriceRecord, error) {
	var rows []priceRecordDTO
	if err := f.client.GetJSON(ctx, "prices", f.url, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}

	records := make([]market.PriceRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, market.PriceRecord{
			MaterialTicker:  row.MaterialTicker,
			ExchangeCode:    row.ExchangeCode,
			PriceAverage:    valueOrNaN(row.PriceAverage),
			TradedYesterday: valueOrNaN(row.TradedYesterday),
		})
	}
	return records, nil
}

// valueOrNaN maps a missing number to NaN so the record is later rejected as invalid
func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
