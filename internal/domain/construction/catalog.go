package construction

import (
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

// maxSuggestionDistance bounds how different a suggested ticker may be
const maxSuggestionDistance = 2

// Catalog indexes buildings by ticker
type Catalog struct {
	buildings map[string]*Building
	tickers   []string
	warnings  []shared.Warning
}

// NewCatalog indexes buildings. A later entry with the same ticker replaces an earlier one.
func NewCatalog(buildings []*Building) *Catalog {
	return NewCatalogWithWarnings(buildings, nil)
}

// NewCatalogWithWarnings indexes buildings and keeps the warnings raised while reading them
func NewCatalogWithWarnings(buildings []*Building, warnings []shared.Warning) *Catalog {
	c := &Catalog{
		buildings: make(map[string]*Building, len(buildings)),
		warnings:  append([]shared.Warning(nil), warnings...),
	}
	for _, b := range buildings {
		if b == nil {
			continue
		}
		if _, exists := c.buildings[b.Ticker()]; !exists {
			c.tickers = append(c.tickers, b.Ticker())
		}
		c.buildings[b.Ticker()] = b
	}
	sort.Strings(c.tickers)
	return c
}

// Lookup returns the building for ticker
func (c *Catalog) Lookup(ticker string) (*Building, bool) {
	if c == nil {
		return nil, false
	}
	b, ok := c.buildings[ticker]
	return b, ok
}

// Len returns the number of buildings
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.tickers)
}

// Tickers returns building tickers in alphabetical order
func (c *Catalog) Tickers() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.tickers))
	copy(out, c.tickers)
	return out
}

// Warnings returns the problems found while the catalog was read
func (c *Catalog) Warnings() []shared.Warning {
	if c == nil || len(c.warnings) == 0 {
		return nil
	}
	out := make([]shared.Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Suggest returns the catalog ticker closest to ticker, or "" when nothing is close
func (c *Catalog) Suggest(ticker string) string {
	best := ""
	bestDistance := maxSuggestionDistance + 1
	for _, candidate := range c.Tickers() {
		d := levenshtein.ComputeDistance(ticker, candidate)
		if d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	return best
}
