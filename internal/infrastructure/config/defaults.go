package config

import (
	"time"

	"github.com/andrescamacho/prun-ccc/internal/domain/construction"
	"github.com/andrescamacho/prun-ccc/internal/domain/market"
)

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// API defaults
	if cfg.API.PricesURL == "" {
		cfg.API.PricesURL = "https://refined-prun.github.io/refined-prices/all.json"
	}
	if cfg.API.PlannerURL == "" {
		cfg.API.PlannerURL = "https://api.prunplanner.org"
	}
	if cfg.API.PlanHost == "" {
		cfg.API.PlanHost = "prunplanner.org"
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 30 * time.Second
	}
	if cfg.API.RateLimit.Requests == 0 {
		cfg.API.RateLimit.Requests = 5
	}
	if cfg.API.RateLimit.Burst == 0 {
		cfg.API.RateLimit.Burst = 5
	}
	if cfg.API.Retry.MaxAttempts == 0 {
		cfg.API.Retry.MaxAttempts = 3
	}
	if cfg.API.Retry.BackoffBase == 0 {
		cfg.API.Retry.BackoffBase = 500 * time.Millisecond
	}
	if cfg.API.CircuitBreaker.MaxFailures == 0 {
		cfg.API.CircuitBreaker.MaxFailures = 5
	}
	if cfg.API.CircuitBreaker.ResetTimeout == 0 {
		cfg.API.CircuitBreaker.ResetTimeout = 30 * time.Second
	}

	// Pricing defaults
	if cfg.Pricing.ExchangeSuffix == "" {
		cfg.Pricing.ExchangeSuffix = market.DefaultExchangeSuffix
	}
	if cfg.Pricing.CoreBuilding == "" {
		cfg.Pricing.CoreBuilding = construction.DefaultCoreBuilding
	}
	if len(cfg.Pricing.Reduced) == 0 {
		cfg.Pricing.Reduced = make(map[string]float64)
		for ticker, price := range market.DefaultReducedPrices() {
			cfg.Pricing.Reduced[ticker.String()] = price
		}
	}
	if cfg.Pricing.ExtraTickers == nil {
		cfg.Pricing.ExtraTickers = []string{market.TickerAEF.String(), market.TickerHSE.String()}
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
}
