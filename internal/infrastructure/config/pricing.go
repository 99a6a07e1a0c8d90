package config

import (
	"fmt"

	"github.com/andrescamacho/prun-ccc/internal/domain/market"
)

// PricingConfig holds the price table and aggregation settings
type PricingConfig struct {
	// Exchange codes ending with this suffix feed the volume-weighted price
	ExchangeSuffix string `mapstructure:"exchange_suffix" yaml:"exchange_suffix" json:"exchange_suffix" validate:"required"`

	// Building every base starts with
	CoreBuilding string `mapstructure:"core_building" yaml:"core_building" json:"core_building" validate:"required"`

	// Cooperative-exchange prices by ticker
	Reduced map[string]float64 `mapstructure:"reduced" yaml:"reduced" json:"reduced" validate:"required,min=1,dive,keys,ticker,endkeys,gte=0"`

	// Tracked tickers without a reduced price
	ExtraTickers []string `mapstructure:"extra_tickers" yaml:"extra_tickers" json:"extra_tickers" validate:"dive,ticker"`
}

// PriceTableConfig converts the settings into the domain configuration.
// Map keys come back lower-cased from viper, so tickers are normalized here.
func (p PricingConfig) PriceTableConfig() (market.PriceTableConfig, error) {
	cfg := market.PriceTableConfig{
		Reduced:        make(map[market.Ticker]float64, len(p.Reduced)),
		ExchangeSuffix: p.ExchangeSuffix,
	}
	for raw, price := range p.Reduced {
		ticker, err := market.NewTicker(raw)
		if err != nil {
			return market.PriceTableConfig{}, fmt.Errorf("pricing.reduced: %w", err)
		}
		cfg.Reduced[ticker] = price
	}
	for _, raw := range p.ExtraTickers {
		ticker, err := market.NewTicker(raw)
		if err != nil {
			return market.PriceTableConfig{}, fmt.Errorf("pricing.extra_tickers: %w", err)
		}
		cfg.Extra = append(cfg.Extra, ticker)
	}
	return cfg, nil
}
