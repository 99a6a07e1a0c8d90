package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/prun-ccc/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect ccc configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (CCC_* prefix, e.g. CCC_LOGGING_LEVEL)
2. Config file (ccc.yaml)
3. Default values

Example:
  ccc config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\nUsing default configuration.\n", err)
				cfg = config.DefaultConfig()
			}

			format := outputFormat
			if format == formatTable {
				format = formatYAML
			}
			return writeStructured(out, format, cfg)
		},
	}
}
