package construction

import (
	"iter"
	"math"

	"github.com/andrescamacho/prun-ccc/internal/domain/market"
)

// ResolveMaterials yields the materials one unit of b needs on planet p:
//  1. every base cost line, unchanged
//  2. the surface material: MCG (area*4) on rocky planets, AEF (ceil(area/3)) otherwise
//  3. one HSE when the pressure is above HighPressureThreshold
//  4. INS (area*10) when the temperature is below LowTemperatureThreshold
//
// The sequence is rebuilt on every call.
func ResolveMaterials(b *Building, p Planet) iter.Seq2[market.Ticker, float64] {
	return func(yield func(market.Ticker, float64) bool) {
		for _, cost := range b.baseCosts {
			if !yield(cost.Ticker, cost.Amount) {
				return
			}
		}

		area := b.areaCost
		if p.Rocky {
			if !yield(market.TickerMCG, area*4) {
				return
			}
		} else {
			if !yield(market.TickerAEF, math.Ceil(area/3)) {
				return
			}
		}

		if p.HighPressure() {
			if !yield(market.TickerHSE, 1) {
				return
			}
		}

		if p.LowTemperature() {
			yield(market.TickerINS, area*10)
		}
	}
}

// CollectMaterials drains ResolveMaterials into a slice
func CollectMaterials(b *Building, p Planet) []MaterialAmount {
	var out []MaterialAmount
	for ticker, amount := range ResolveMaterials(b, p) {
		out = append(out, MaterialAmount{Ticker: ticker, Amount: amount})
	}
	return out
}
