package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/prun-ccc/internal/domain/market"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

func TestEncodeFragment_SortedAndSkipsZero(t *testing.T) {
	q := market.QuantityMap{"MCG": 124, "BSE": 32, "BBH": 0, "INS": 12.5}

	assert.Equal(t, "BSE=32&INS=12.5&MCG=124", EncodeFragment(q))
	assert.Equal(t, "", EncodeFragment(market.QuantityMap{}))
}

func TestParseFragment_RestoresEncodedQuantities(t *testing.T) {
	q := market.QuantityMap{"MCG": 124, "BSE": 32, "INS": 12.5}

	parsed, warnings := ParseFragment("#"+EncodeFragment(q), nil)

	assert.Empty(t, warnings)
	assert.Equal(t, q, parsed)
}

func TestParseFragment_SkipsMalformedPairs(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     market.QuantityMap
		warnings int
	}{
		{name: "empty", fragment: "", want: market.QuantityMap{}},
		{name: "only hash", fragment: "#", want: market.QuantityMap{}},
		{name: "missing equals", fragment: "BSE&MCG=3", want: market.QuantityMap{"MCG": 3}, warnings: 1},
		{name: "not a number", fragment: "BSE=lots&MCG=3", want: market.QuantityMap{"MCG": 3}, warnings: 1},
		{name: "negative", fragment: "BSE=-1", want: market.QuantityMap{}, warnings: 1},
		{name: "bad ticker", fragment: "TOOLONG=1&bse=2", want: market.QuantityMap{"BSE": 2}, warnings: 1},
		{name: "empty pairs", fragment: "&&MCG=3&", want: market.QuantityMap{"MCG": 3}},
		{name: "repeated keeps last", fragment: "MCG=3&MCG=4", want: market.QuantityMap{"MCG": 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings := ParseFragment(tt.fragment, nil)

			assert.Equal(t, tt.want, got)
			assert.Len(t, warnings, tt.warnings)
			for _, w := range warnings {
				assert.Equal(t, shared.WarningInvalidOverride, w.Kind)
			}
		})
	}
}

func TestParseFragment_RejectsUntrackedTickers(t *testing.T) {
	accept := func(t market.Ticker) bool { return t == "MCG" }

	got, warnings := ParseFragment("MCG=3&RAT=9", accept)

	assert.Equal(t, market.QuantityMap{"MCG": 3}, got)
	if assert.Len(t, warnings, 1) {
		assert.Equal(t, "RAT", warnings[0].Subject)
	}
}
