package construction

import (
	"github.com/andrescamacho/prun-ccc/internal/domain/market"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

// DefaultCoreBuilding is the core module every base starts with
const DefaultCoreBuilding = "CM"

// AggregateOptions tunes Aggregate
type AggregateOptions struct {
	// CoreBuilding is added once regardless of the plan. Empty means DefaultCoreBuilding.
	CoreBuilding string

	// SkipCore leaves the core building out
	SkipCore bool
}

// Aggregation is the summed material requirement of a plan
type Aggregation struct {
	Quantities market.QuantityMap
	Warnings   []shared.Warning
}

// Aggregate sums the materials of the core building and every plan entry with the
// default options. See AggregateWithOptions.
func Aggregate(plan *Plan, catalog *Catalog, planet Planet, prices *market.PriceTable) Aggregation {
	return AggregateWithOptions(plan, catalog, planet, prices, AggregateOptions{})
}

// AggregateWithOptions sums, per ticker tracked by prices, the resolved materials of the
// core building (once) and of every building and infrastructure entry times its count.
// Entries with a zero count are skipped. An entry whose building is missing from the
// catalog contributes nothing and is reported as a warning; the rest of the plan is still summed.
func AggregateWithOptions(plan *Plan, catalog *Catalog, planet Planet, prices *market.PriceTable, opts AggregateOptions) Aggregation {
	agg := Aggregation{Quantities: make(market.QuantityMap)}

	add := func(ticker string, count int, role string) {
		if count <= 0 {
			return
		}
		building, ok := catalog.Lookup(ticker)
		if !ok {
			agg.Warnings = append(agg.Warnings, missingBuildingWarning(catalog, ticker, role))
			return
		}
		for material, amount := range ResolveMaterials(building, planet) {
			if !prices.Tracks(material) {
				continue
			}
			agg.Quantities.Add(material, amount*float64(count))
		}
	}

	if !opts.SkipCore {
		core := opts.CoreBuilding
		if core == "" {
			core = DefaultCoreBuilding
		}
		add(core, 1, "core building")
	}

	if plan == nil {
		return agg
	}
	for _, entry := range plan.Buildings {
		add(entry.Ticker, entry.Count, "building")
	}
	for _, entry := range plan.Infrastructure {
		add(entry.Ticker, entry.Count, "infrastructure")
	}

	return agg
}

func missingBuildingWarning(catalog *Catalog, ticker, role string) shared.Warning {
	if suggestion := catalog.Suggest(ticker); suggestion != "" {
		return shared.NewWarning(shared.WarningMissingBuilding, ticker,
			"%s not in catalog, contribution skipped (did you mean %s?)", role, suggestion)
	}
	return shared.NewWarning(shared.WarningMissingBuilding, ticker,
		"%s not in catalog, contribution skipped", role)
}
