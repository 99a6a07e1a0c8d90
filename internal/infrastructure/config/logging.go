package config

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" yaml:"level" json:"level" validate:"required,oneof=debug info warn error"`

	// Log format: json, console
	Format string `mapstructure:"format" yaml:"format" json:"format" validate:"required,oneof=json console"`

	// Output destination: stdout, stderr
	Output string `mapstructure:"output" yaml:"output" json:"output" validate:"required,oneof=stdout stderr"`
}
