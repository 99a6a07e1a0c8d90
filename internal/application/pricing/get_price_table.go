package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/prun-ccc/internal/adapters/metrics"
	"github.com/andrescamacho/prun-ccc/internal/application/common"
	"github.com/andrescamacho/prun-ccc/internal/application/mediator"
	"github.com/andrescamacho/prun-ccc/internal/domain/market"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

// GetPriceTableQuery fetches the market feed and builds the price table
type GetPriceTableQuery struct{}

// GetPriceTableResponse carries the built table and any data warnings
type GetPriceTableResponse struct {
	Table     *market.PriceTable
	Warnings  []shared.Warning
	FetchedAt time.Time
}

// GetPriceTableHandler handles GetPriceTableQuery
type GetPriceTableHandler struct {
	feed  market.PriceFeed
	cfg   market.PriceTableConfig
	clock shared.Clock
}

// NewGetPriceTableHandler creates a new price table handler.
// If clock is nil, uses RealClock.
func NewGetPriceTableHandler(feed market.PriceFeed, cfg market.PriceTableConfig, clock shared.Clock) *GetPriceTableHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GetPriceTableHandler{feed: feed, cfg: cfg, clock: clock}
}

// Handle executes the price table query
func (h *GetPriceTableHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*GetPriceTableQuery); !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	logger := common.LoggerFromContext(ctx)

	records, err := h.feed.FetchPriceRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading prices: %w", err)
	}

	table, warnings := market.BuildPriceTable(records, h.cfg)
	for _, w := range warnings {
		metrics.RecordWarning(string(w.Kind))
		logger.Log("warn", w.Message, map[string]interface{}{
			"kind":    string(w.Kind),
			"subject": w.Subject,
		})
	}

	metrics.RecordPriceTable(table.Len(), len(table.UnpricedTickers()))
	logger.Log("info", "price table built", map[string]interface{}{
		"records":  len(records),
		"tracked":  table.Len(),
		"unpriced": len(table.UnpricedTickers()),
	})

	return &GetPriceTableResponse{
		Table:     table,
		Warnings:  warnings,
		FetchedAt: h.clock.Now(),
	}, nil
}
