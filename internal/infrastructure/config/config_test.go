package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/prun-ccc/internal/domain/market"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ccc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_DefaultsWhenFileIsEmpty(t *testing.T) {
	// Arrange
	path := writeConfigFile(t, "")

	// Act
	cfg, err := LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://api.prunplanner.org", cfg.API.PlannerURL)
	assert.Equal(t, "prunplanner.org", cfg.API.PlanHost)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "1", cfg.Pricing.ExchangeSuffix)
	assert.Equal(t, "CM", cfg.Pricing.CoreBuilding)
	assert.Len(t, cfg.Pricing.Reduced, 12)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadConfig_FileValuesAndReducedPrices(t *testing.T) {
	// Arrange
	path := writeConfigFile(t, `
api:
  timeout: 5s
  retry:
    max_attempts: 1
pricing:
  core_building: cm
  reduced:
    BSE: 1000
    mcg: 15
  extra_tickers: [AEF]
logging:
  level: debug
  format: json
`)

	// Act
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	tableCfg, err := cfg.Pricing.PriceTableConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 1, cfg.API.Retry.MaxAttempts)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, map[market.Ticker]float64{"BSE": 1000, "MCG": 15}, tableCfg.Reduced)
	assert.Equal(t, []market.Ticker{"AEF"}, tableCfg.Extra)
	assert.Equal(t, []market.Ticker{"AEF", "BSE", "MCG"}, tableCfg.TrackedTickers())
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	// Arrange
	path := writeConfigFile(t, "logging:\n  level: warn\n")
	t.Setenv("CCC_LOGGING_LEVEL", "error")
	t.Setenv("CCC_API_PLANNER_URL", "http://localhost:9999")

	// Act
	cfg, err := LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "http://localhost:9999", cfg.API.PlannerURL)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown log level", content: "logging:\n  level: chatty\n"},
		{name: "bad price url", content: "api:\n  prices_url: not a url\n"},
		{name: "bad reduced ticker", content: "pricing:\n  reduced:\n    bad-one: 10\n"},
		{name: "negative reduced price", content: "pricing:\n  reduced:\n    BSE: -1\n"},
		{name: "bad extra ticker", content: "pricing:\n  extra_tickers: [\"??\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			path := writeConfigFile(t, tt.content)

			// Act
			_, err := LoadConfig(path)

			// Assert
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestLoadConfig_MissingExplicitFileFails(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidator_ValidateVar(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.ValidateVar("link", "https://prunplanner.org/plan/abc", "required,url"))

	err := v.ValidateVar("link", "", "required,url")
	require.Error(t, err)
	assert.True(t, shared.IsValidationError(err))

	err = v.ValidateVar("ticker", "toolong", "ticker")
	require.Error(t, err)
}
