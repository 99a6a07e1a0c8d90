package construction

import (
	"fmt"
	"strings"
)

// PlanEntry is a building ticker and how many of it the plan builds
type PlanEntry struct {
	Ticker string
	Count  int
}

// NewPlanEntry normalizes the ticker and rejects negative counts
func NewPlanEntry(ticker string, count int) (PlanEntry, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return PlanEntry{}, fmt.Errorf("%w: ticker cannot be empty", ErrInvalidPlanEntry)
	}
	if count < 0 {
		return PlanEntry{}, fmt.Errorf("%w: %s has negative count %d", ErrInvalidPlanEntry, ticker, count)
	}
	return PlanEntry{Ticker: ticker, Count: count}, nil
}

// Plan is a base plan from the planning service
type Plan struct {
	PlanetID       string
	Buildings      []PlanEntry
	Infrastructure []PlanEntry
}

// EntryCount returns how many entries with a positive count the plan has
func (p *Plan) EntryCount() int {
	n := 0
	for _, e := range p.Buildings {
		if e.Count > 0 {
			n++
		}
	}
	for _, e := range p.Infrastructure {
		if e.Count > 0 {
			n++
		}
	}
	return n
}
