package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/prun-ccc/internal/application/sheet"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// numbers groups thousands and drops decimals, e.g. 12,345
var numbers = message.NewPrinter(language.English)

func formatAmount(v float64) string {
	return numbers.Sprintf("%.0f", v)
}

func formatOptional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return formatAmount(*v)
}

// writeStructured encodes v as JSON or YAML
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// writeView prints a rendered sheet
func writeView(w io.Writer, format string, view sheet.View) error {
	if format != formatTable {
		return writeStructured(w, format, view)
	}

	switch view.Status {
	case sheet.StatusLoading:
		fmt.Fprintln(w, "loading...")
		return nil
	case sheet.StatusError:
		fmt.Fprintln(w, view.Error)
		return nil
	}

	if view.Link != "" {
		fmt.Fprintf(w, "plan:   %s\n", view.Link)
		fmt.Fprintf(w, "planet: %s\n\n", view.PlanetID)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "MATERIAL\tREGULAR\tREDUCED\tCOUNT\tCOST\tMARKET COST\t")
	fmt.Fprintln(tw, "--------\t-------\t-------\t-----\t----\t-----------\t")
	for _, row := range view.Rows {
		count, cost, marketCost := "", "", ""
		if row.Quantity != 0 || row.Overridden {
			count = formatAmount(row.Quantity)
			if row.Overridden {
				count += "*"
			}
			cost, marketCost = "n/a", "n/a"
			if row.ReducedPriced {
				cost = formatAmount(row.ReducedCost)
			}
			if row.Priced {
				marketCost = formatAmount(row.RegularCost)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			row.Ticker, formatOptional(row.Regular), formatOptional(row.Reduced), count, cost, marketCost)
	}
	fmt.Fprintf(tw, "\t\t\ttotal\t%s\t%s\t\n", formatAmount(view.ReducedTotal), formatAmount(view.RegularTotal))
	if err := tw.Flush(); err != nil {
		return err
	}

	if view.PlanLoading {
		fmt.Fprintln(w, "\nloading plan...")
	}
	if view.PlanError != "" {
		fmt.Fprintf(w, "\n%s\n", view.PlanError)
	}
	if view.Error != "" {
		fmt.Fprintf(w, "\n%s\n", view.Error)
	}
	writeWarnings(w, view.Warnings)
	if view.Fragment != "" {
		fmt.Fprintf(w, "\nfragment: #%s\n", view.Fragment)
	}
	return nil
}

func writeWarnings(w io.Writer, warnings []shared.Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, warning := range warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}
