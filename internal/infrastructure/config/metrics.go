package config

// MetricsConfig controls in-process metrics collection.
// There is no metrics endpoint; the CLI can dump the registry after a command.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
}
