package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/prun-ccc/internal/domain/market"
)

// MockPriceFeed is a test double for the market price feed
type MockPriceFeed struct {
	mu      sync.Mutex
	records []market.PriceRecord
	err     error
	calls   int
}

// NewMockPriceFeed creates a feed returning records
func NewMockPriceFeed(records ...market.PriceRecord) *MockPriceFeed {
	return &MockPriceFeed{records: records}
}

// AddRecord appends a feed row
func (m *MockPriceFeed) AddRecord(ticker, exchange string, price, volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, market.PriceRecord{
		MaterialTicker:  ticker,
		ExchangeCode:    exchange,
		PriceAverage:    price,
		TradedYesterday: volume,
	})
}

// SetError makes every fetch fail with err
func (m *MockPriceFeed) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many fetches were made
func (m *MockPriceFeed) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// FetchPriceRecords implements market.PriceFeed
func (m *MockPriceFeed) FetchPriceRecords(ctx context.Context) ([]market.PriceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]market.PriceRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}
