package steps

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	"github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/prun-ccc/internal/domain/construction"
	"github.com/andrescamacho/prun-ccc/internal/domain/market"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

// Shared assertion state across contexts.
// Steps like "a price table" and "there should be a ... warning" are registered
// once and read by every context that needs them.
var (
	sharedPriceTable *market.PriceTable
	sharedWarnings   []shared.Warning
)

func resetShared() {
	sharedPriceTable = nil
	sharedWarnings = nil
}

// getCellValueFromTable gets a cell value from a table row by column name,
// using the first row as the header
func getCellValueFromTable(table *godog.Table, row *messages.PickleTableRow, columnName string) string {
	if len(table.Rows) == 0 {
		return ""
	}
	for i, headerCell := range table.Rows[0].Cells {
		if headerCell.Value == columnName {
			if i < len(row.Cells) {
				return strings.TrimSpace(row.Cells[i].Value)
			}
			return ""
		}
	}
	return ""
}

// dataRows returns the table rows after the header
func dataRows(table *godog.Table) []*messages.PickleTableRow {
	if table == nil || len(table.Rows) < 2 {
		return nil
	}
	return table.Rows[1:]
}

func parseFloat(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", raw, err)
	}
	return v, nil
}

// parseMaterialList parses "BSE=10,MCG=12" keeping the order
func parseMaterialList(raw string) ([]construction.MaterialAmount, error) {
	var out []construction.MaterialAmount
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		rawTicker, rawAmount, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid material %q", pair)
		}
		ticker, err := market.NewTicker(rawTicker)
		if err != nil {
			return nil, err
		}
		amount, err := parseFloat(rawAmount)
		if err != nil {
			return nil, err
		}
		out = append(out, construction.MaterialAmount{Ticker: ticker, Amount: amount})
	}
	return out, nil
}

func parseQuantities(raw string) (market.QuantityMap, error) {
	materials, err := parseMaterialList(raw)
	if err != nil {
		return nil, err
	}
	q := make(market.QuantityMap, len(materials))
	for _, m := range materials {
		q[m.Ticker] = m.Amount
	}
	return q, nil
}

func formatMaterials(materials []construction.MaterialAmount) string {
	parts := make([]string, 0, len(materials))
	for _, m := range materials {
		parts = append(parts, m.Ticker.String()+"="+strconv.FormatFloat(m.Amount, 'f', -1, 64))
	}
	return strings.Join(parts, ",")
}

// formatQuantities renders q sorted by ticker in the parseQuantities format
func formatQuantities(q market.QuantityMap) string {
	materials := make([]construction.MaterialAmount, 0, len(q))
	for _, ticker := range q.Tickers() {
		materials = append(materials, construction.MaterialAmount{Ticker: ticker, Amount: q[ticker]})
	}
	return formatMaterials(materials)
}

// expectQuantities compares q to an expected "A=1,B=2" list in any order
func expectQuantities(expected string, q market.QuantityMap) error {
	want, err := parseQuantities(expected)
	if err != nil {
		return err
	}
	if formatQuantities(want) != formatQuantities(q) {
		return fmt.Errorf("expected quantities %s but got %s", formatQuantities(want), formatQuantities(q))
	}
	return nil
}

// parseBuildingTable reads a | ticker | area | costs | table
func parseBuildingTable(table *godog.Table) ([]*construction.Building, error) {
	var out []*construction.Building
	for _, row := range dataRows(table) {
		area, err := parseFloat(getCellValueFromTable(table, row, "area"))
		if err != nil {
			return nil, err
		}
		costs, err := parseMaterialList(getCellValueFromTable(table, row, "costs"))
		if err != nil {
			return nil, err
		}
		b, err := construction.NewBuilding(getCellValueFromTable(table, row, "ticker"), area, costs)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// parsePlanEntries reads a | ticker | count | table
func parsePlanEntries(table *godog.Table) ([]construction.PlanEntry, error) {
	var out []construction.PlanEntry
	for _, row := range dataRows(table) {
		count, err := strconv.Atoi(getCellValueFromTable(table, row, "count"))
		if err != nil {
			return nil, fmt.Errorf("invalid count: %w", err)
		}
		entry, err := construction.NewPlanEntry(getCellValueFromTable(table, row, "ticker"), count)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func newPlanet(surface, id string, pressure, temperature float64) (construction.Planet, error) {
	switch surface {
	case "rocky", "gaseous":
	default:
		return construction.Planet{}, fmt.Errorf("unknown surface %q", surface)
	}
	return construction.Planet{
		ID:          id,
		Rocky:       surface == "rocky",
		Pressure:    pressure,
		Temperature: temperature,
		Gravity:     1,
	}, nil
}
