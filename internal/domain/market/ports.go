package market

import "context"

// PriceFeed fetches the raw market price records
type PriceFeed interface {
	FetchPriceRecords(ctx context.Context) ([]PriceRecord, error)
}
