package config

import "time"

// APIConfig holds the remote data source configuration
type APIConfig struct {
	// Market price feed (full URL)
	PricesURL string `mapstructure:"prices_url" yaml:"prices_url" json:"prices_url" validate:"required,url"`

	// Base URL of the planning API serving buildings, planets and plans
	PlannerURL string `mapstructure:"planner_url" yaml:"planner_url" json:"planner_url" validate:"required,url"`

	// Host plan-sharing links must use
	PlanHost string `mapstructure:"plan_host" yaml:"plan_host" json:"plan_host" validate:"required,hostname_rfc1123"`

	// Request timeout
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout" validate:"required"`

	// Rate limiting settings
	RateLimit RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"`

	// Retry configuration
	Retry RetryConfig `mapstructure:"retry" yaml:"retry" json:"retry"`

	// Circuit breaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker" yaml:"circuit_breaker" json:"circuit_breaker"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Maximum requests per second
	Requests int `mapstructure:"requests" yaml:"requests" json:"requests" validate:"min=1"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" yaml:"burst" json:"burst" validate:"min=1"`
}

// RetryConfig holds retry configuration for failed requests
type RetryConfig struct {
	// Maximum number of retry attempts
	MaxAttempts int `mapstructure:"max_attempts" yaml:"max_attempts" json:"max_attempts" validate:"min=0"`

	// Base duration for exponential backoff
	BackoffBase time.Duration `mapstructure:"backoff_base" yaml:"backoff_base" json:"backoff_base"`
}

// CircuitBreakerConfig holds circuit breaker thresholds
type CircuitBreakerConfig struct {
	// Consecutive failures before the circuit opens
	MaxFailures int `mapstructure:"max_failures" yaml:"max_failures" json:"max_failures" validate:"min=1"`

	// Time the circuit stays open before a trial request
	ResetTimeout time.Duration `mapstructure:"reset_timeout" yaml:"reset_timeout" json:"reset_timeout" validate:"required"`
}
