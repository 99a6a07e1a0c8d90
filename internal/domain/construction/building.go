package construction

import (
	"fmt"
	"math"
	"strings"

	"github.com/andrescamacho/prun-ccc/internal/domain/market"
)

// MaterialAmount is one line of a building's base cost
type MaterialAmount struct {
	Ticker market.Ticker
	Amount float64
}

// Building is a catalog entry: the planet-independent cost of constructing one unit
type Building struct {
	ticker    string
	areaCost  float64
	baseCosts []MaterialAmount
}

// NewBuilding validates catalog data and creates a Building.
// Base cost lines with an unparseable ticker are rejected.
func NewBuilding(ticker string, areaCost float64, baseCosts []MaterialAmount) (*Building, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("%w: ticker cannot be empty", ErrInvalidBuilding)
	}
	if math.IsNaN(areaCost) || math.IsInf(areaCost, 0) || areaCost < 0 {
		return nil, fmt.Errorf("%w: %s has area cost %v", ErrInvalidBuilding, ticker, areaCost)
	}
	for _, cost := range baseCosts {
		if cost.Ticker == "" {
			return nil, fmt.Errorf("%w: %s has a base cost without ticker", ErrInvalidBuilding, ticker)
		}
		if err := market.ValidateQuantity(cost.Amount); err != nil {
			return nil, fmt.Errorf("%w: %s cost %s: %v", ErrInvalidBuilding, ticker, cost.Ticker, err)
		}
	}

	costs := make([]MaterialAmount, len(baseCosts))
	copy(costs, baseCosts)

	return &Building{
		ticker:    ticker,
		areaCost:  areaCost,
		baseCosts: costs,
	}, nil
}

func (b *Building) Ticker() string    { return b.ticker }
func (b *Building) AreaCost() float64 { return b.areaCost }

// BaseCosts returns a copy of the base cost lines in catalog order
func (b *Building) BaseCosts() []MaterialAmount {
	out := make([]MaterialAmount, len(b.baseCosts))
	copy(out, b.baseCosts)
	return out
}
