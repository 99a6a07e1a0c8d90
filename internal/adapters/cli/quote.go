package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/prun-ccc/internal/application/planning"
	"github.com/andrescamacho/prun-ccc/internal/application/sheet"
)

// NewQuoteCommand creates the quote command
func NewQuoteCommand() *cobra.Command {
	var (
		sets     []string
		clears   []string
		fragment string
		noCore   bool
	)

	cmd := &cobra.Command{
		Use:   "quote [plan-link]",
		Short: "Compute material quantities and cost of a shared base plan",
		Long: `Fetch a plan shared from PrUn Planner, resolve the materials of every
building (and the core module) for the plan's planet and price them.

Quantities can be adjusted after the computation with --set and --clear, or
restored from a fragment printed by an earlier run. Without a plan link only
the fragment and --set values are priced.

Examples:
  ccc quote https://prunplanner.org/plan/abc123
  ccc quote https://prunplanner.org/plan/abc123 --set MCG=500 --clear INS
  ccc quote --fragment 'BSE=32&MCG=124' --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			ctx := a.context(cmd.Context())
			out := cmd.OutOrStdout()

			prices, err := a.prices(ctx)
			if err != nil {
				return err
			}

			state := sheet.NewState()
			state.SetPrices(prices.Table, prices.Warnings)

			if len(args) == 1 {
				quote, err := a.quote(ctx, &planning.CalculateQuoteQuery{
					Link:     args[0],
					Prices:   prices.Table,
					SkipCore: noCore,
				})
				if err != nil {
					return err
				}
				state.ApplyQuote(quote)
			}

			if fragment != "" {
				state.LoadFragment(fragment)
			}
			for _, set := range sets {
				ticker, value, ok := strings.Cut(set, "=")
				if !ok {
					return fmt.Errorf("--set expects TICKER=QUANTITY, got %q", set)
				}
				if err := state.SetOverride(ticker, value); err != nil {
					return err
				}
			}
			for _, ticker := range clears {
				if err := state.ClearOverride(ticker); err != nil {
					return err
				}
			}

			if err := writeView(out, outputFormat, sheet.Render(state)); err != nil {
				return err
			}
			return a.finish(out)
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Override a quantity, TICKER=QUANTITY (empty quantity clears)")
	cmd.Flags().StringArrayVar(&clears, "clear", nil, "Clear the override of a ticker")
	cmd.Flags().StringVar(&fragment, "fragment", "", "Restore quantities from a fragment (ticker=quantity&...)")
	cmd.Flags().BoolVar(&noCore, "no-core", false, "Leave out the core building")

	return cmd
}
