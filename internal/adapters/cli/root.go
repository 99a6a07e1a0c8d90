package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath   string
	outputFormat string
	dumpMetrics  bool
	verbose      bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ccc",
		Short: "Colony construction cost calculator",
		Long: `ccc prices the materials needed to build a base plan shared from PrUn Planner.

It fetches market prices and the building catalog, resolves every building of
the plan against the planet's environment and totals the cost at reduced and
regular prices.

Examples:
  ccc prices
  ccc quote https://prunplanner.org/plan/abc123
  ccc quote https://prunplanner.org/plan/abc123 --set MCG=500 --output json
  ccc quote --fragment 'BSE=32&MCG=124'
  ccc sheet
  ccc fragment decode 'BSE=32&MCG=124'`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case formatTable, formatJSON, formatYAML:
				return nil
			default:
				return fmt.Errorf("unknown output format %q (table, json or yaml)", outputFormat)
			}
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to config file (default ./ccc.yaml or $HOME/.config/ccc/ccc.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatTable,
		"Output format: table, json or yaml")
	rootCmd.PersistentFlags().BoolVar(&dumpMetrics, "metrics", false,
		"Print collected metrics after the command")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	// Add commands
	rootCmd.AddCommand(NewPricesCommand())
	rootCmd.AddCommand(NewQuoteCommand())
	rootCmd.AddCommand(NewSheetCommand())
	rootCmd.AddCommand(NewFragmentCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
