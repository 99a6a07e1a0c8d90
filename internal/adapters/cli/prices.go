package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/prun-ccc/internal/domain/market"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

type priceRow struct {
	Ticker  market.Ticker `json:"ticker" yaml:"ticker"`
	Regular *float64      `json:"regular_price" yaml:"regular_price"`
	Reduced *float64      `json:"reduced_price" yaml:"reduced_price"`
}

type priceListing struct {
	Prices   []priceRow       `json:"prices" yaml:"prices"`
	Warnings []shared.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// NewPricesCommand creates the prices command
func NewPricesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prices",
		Short: "List regular and reduced prices of tracked materials",
		Long: `Fetch the market price feed and show, per tracked material, the
volume-weighted regular price on the configured exchanges next to the reduced
cooperative price.

Examples:
  ccc prices
  ccc prices --output yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			ctx := a.context(cmd.Context())

			result, err := a.prices(ctx)
			if err != nil {
				return err
			}

			listing := priceListing{Warnings: result.Warnings}
			for _, ticker := range result.Table.Tickers() {
				price, _ := result.Table.Lookup(ticker)
				row := priceRow{Ticker: ticker}
				if v, ok := market.RegularPrice(price); ok {
					row.Regular = &v
				}
				if v, ok := market.ReducedPrice(price); ok {
					row.Reduced = &v
				}
				listing.Prices = append(listing.Prices, row)
			}

			out := cmd.OutOrStdout()
			if outputFormat != formatTable {
				if err := writeStructured(out, outputFormat, listing); err != nil {
					return err
				}
				return a.finish(out)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "MATERIAL\tREGULAR\tREDUCED\t")
			fmt.Fprintln(tw, "--------\t-------\t-------\t")
			for _, row := range listing.Prices {
				fmt.Fprintf(tw, "%s\t%s\t%s\t\n", row.Ticker, formatOptional(row.Regular), formatOptional(row.Reduced))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			writeWarnings(out, listing.Warnings)
			return a.finish(out)
		},
	}
}
