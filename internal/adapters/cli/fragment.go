package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/prun-ccc/internal/application/sheet"
	"github.com/andrescamacho/prun-ccc/internal/domain/market"
)

// NewFragmentCommand creates the fragment command with subcommands
func NewFragmentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fragment",
		Short: "Encode or decode quantity fragments",
		Long: `A fragment stores quantities as ticker=quantity pairs joined by '&',
sorted by ticker. It works offline and needs no configuration.

Examples:
  ccc fragment encode MCG=124 BSE=32
  ccc fragment decode '#BSE=32&MCG=124'`,
	}

	cmd.AddCommand(newFragmentEncodeCommand())
	cmd.AddCommand(newFragmentDecodeCommand())

	return cmd
}

func newFragmentEncodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "encode TICKER=QUANTITY...",
		Short: "Build a fragment from ticker=quantity arguments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, warnings := sheet.ParseFragment(strings.Join(args, "&"), nil)
			if len(warnings) > 0 {
				return fmt.Errorf("invalid quantity: %s", warnings[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), sheet.EncodeFragment(q))
			return nil
		},
	}
}

type fragmentEntry struct {
	Ticker   market.Ticker `json:"ticker" yaml:"ticker"`
	Quantity float64       `json:"quantity" yaml:"quantity"`
}

func newFragmentDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode FRAGMENT",
		Short: "List the quantities stored in a fragment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			q, warnings := sheet.ParseFragment(args[0], nil)

			entries := make([]fragmentEntry, 0, len(q))
			for _, ticker := range q.Tickers() {
				entries = append(entries, fragmentEntry{Ticker: ticker, Quantity: q[ticker]})
			}

			if outputFormat != formatTable {
				return writeStructured(out, outputFormat, entries)
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%-5s %s\n", e.Ticker, formatAmount(e.Quantity))
			}
			writeWarnings(out, warnings)
			return nil
		},
	}
}
