package steps

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/prun-ccc/internal/domain/market"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

type marketContext struct {
	cfg     market.PriceTableConfig
	records []market.PriceRecord
	table   *market.PriceTable
	totals  market.Totals
}

func (mc *marketContext) reset() {
	mc.cfg = market.PriceTableConfig{Reduced: make(map[market.Ticker]float64)}
	mc.records = nil
	mc.table = nil
	mc.totals = market.Totals{}
	resetShared()
}

// Price table configuration

func (mc *marketContext) theReducedPrices(table *godog.Table) error {
	for _, row := range dataRows(table) {
		ticker, err := market.NewTicker(getCellValueFromTable(table, row, "ticker"))
		if err != nil {
			return err
		}
		price, err := parseFloat(getCellValueFromTable(table, row, "price"))
		if err != nil {
			return err
		}
		mc.cfg.Reduced[ticker] = price
	}
	return nil
}

func (mc *marketContext) theExtraTrackedTickers(list string) error {
	for _, raw := range strings.Split(list, ",") {
		ticker, err := market.NewTicker(raw)
		if err != nil {
			return err
		}
		mc.cfg.Extra = append(mc.cfg.Extra, ticker)
	}
	return nil
}

func (mc *marketContext) thePriceRecords(table *godog.Table) error {
	for _, row := range dataRows(table) {
		average, err := parseFloat(getCellValueFromTable(table, row, "average"))
		if err != nil {
			return err
		}
		volume, err := parseFloat(getCellValueFromTable(table, row, "volume"))
		if err != nil {
			return err
		}
		mc.records = append(mc.records, market.PriceRecord{
			MaterialTicker:  getCellValueFromTable(table, row, "ticker"),
			ExchangeCode:    getCellValueFromTable(table, row, "exchange"),
			PriceAverage:    average,
			TradedYesterday: volume,
		})
	}
	return nil
}

func (mc *marketContext) iBuildThePriceTable() error {
	mc.table, sharedWarnings = market.BuildPriceTable(mc.records, mc.cfg)
	sharedPriceTable = mc.table
	return nil
}

// aPriceTable builds a table directly; empty cells mean the price is missing
func (mc *marketContext) aPriceTable(table *godog.Table) error {
	prices := make(map[market.Ticker]market.Price)
	for _, row := range dataRows(table) {
		ticker, err := market.NewTicker(getCellValueFromTable(table, row, "ticker"))
		if err != nil {
			return err
		}
		rawRegular := getCellValueFromTable(table, row, "regular")
		rawReduced := getCellValueFromTable(table, row, "reduced")

		if rawRegular == "" && rawReduced == "" {
			prices[ticker] = market.Unpriced{}
			continue
		}
		if rawRegular == "" {
			reduced, err := parseFloat(rawReduced)
			if err != nil {
				return err
			}
			prices[ticker] = market.ReducedOnly{Reduced: reduced}
			continue
		}
		regular, err := parseFloat(rawRegular)
		if err != nil {
			return err
		}
		if rawReduced == "" {
			prices[ticker] = market.Priced{Regular: regular}
			continue
		}
		reduced, err := parseFloat(rawReduced)
		if err != nil {
			return err
		}
		prices[ticker] = market.PricedWithReduced{Regular: regular, Reduced: reduced}
	}
	mc.table = market.NewPriceTable(prices)
	sharedPriceTable = mc.table
	return nil
}

// Price assertions

func (mc *marketContext) lookup(raw string) (market.Price, error) {
	if mc.table == nil {
		return nil, fmt.Errorf("no price table built")
	}
	price, ok := mc.table.Lookup(market.Ticker(raw))
	if !ok {
		return nil, fmt.Errorf("%s is not tracked", raw)
	}
	return price, nil
}

func (mc *marketContext) theRegularPriceOfShouldBe(ticker string, expected float64) error {
	price, err := mc.lookup(ticker)
	if err != nil {
		return err
	}
	regular, ok := market.RegularPrice(price)
	if !ok {
		return fmt.Errorf("%s has no regular price", ticker)
	}
	if math.Abs(regular-expected) > 1e-9 {
		return fmt.Errorf("expected regular price %v for %s but got %v", expected, ticker, regular)
	}
	return nil
}

func (mc *marketContext) theReducedPriceOfShouldBe(ticker string, expected float64) error {
	price, err := mc.lookup(ticker)
	if err != nil {
		return err
	}
	reduced, ok := market.ReducedPrice(price)
	if !ok {
		return fmt.Errorf("%s has no reduced price", ticker)
	}
	if reduced != expected {
		return fmt.Errorf("expected reduced price %v for %s but got %v", expected, ticker, reduced)
	}
	return nil
}

func (mc *marketContext) shouldHaveNoReducedPrice(ticker string) error {
	price, err := mc.lookup(ticker)
	if err != nil {
		return err
	}
	if reduced, ok := market.ReducedPrice(price); ok {
		return fmt.Errorf("expected no reduced price for %s but got %v", ticker, reduced)
	}
	return nil
}

func (mc *marketContext) shouldHaveNoRegularPrice(ticker string) error {
	price, err := mc.lookup(ticker)
	if err != nil {
		return err
	}
	if regular, ok := market.RegularPrice(price); ok {
		return fmt.Errorf("expected no regular price for %s but got %v", ticker, regular)
	}
	return nil
}

func (mc *marketContext) shouldBeUnpriced(ticker string) error {
	price, err := mc.lookup(ticker)
	if err != nil {
		return err
	}
	if _, ok := price.(market.Unpriced); !ok {
		return fmt.Errorf("expected %s to be unpriced but got %#v", ticker, price)
	}
	return nil
}

func (mc *marketContext) thePriceTableShouldNotTrack(ticker string) error {
	if mc.table.Tracks(market.Ticker(ticker)) {
		return fmt.Errorf("expected %s not to be tracked", ticker)
	}
	return nil
}

func (mc *marketContext) thePriceTableShouldTrackTickers(expected int) error {
	if mc.table.Len() != expected {
		return fmt.Errorf("expected %d tracked tickers but got %d (%v)", expected, mc.table.Len(), mc.table.Tickers())
	}
	return nil
}

// Totals

func (mc *marketContext) iTotalizeTheQuantities(table *godog.Table) error {
	q := make(market.QuantityMap)
	for _, row := range dataRows(table) {
		amount, err := parseFloat(getCellValueFromTable(table, row, "quantity"))
		if err != nil {
			return err
		}
		q[market.Ticker(getCellValueFromTable(table, row, "ticker"))] = amount
	}
	mc.totals = market.Totalize(q, mc.table)
	sharedWarnings = mc.totals.Warnings
	return nil
}

func (mc *marketContext) theReducedTotalShouldBe(expected float64) error {
	if math.Abs(mc.totals.Reduced-expected) > 1e-9 {
		return fmt.Errorf("expected reduced total %v but got %v", expected, mc.totals.Reduced)
	}
	return nil
}

func (mc *marketContext) theRegularTotalShouldBe(expected float64) error {
	if math.Abs(mc.totals.Regular-expected) > 1e-9 {
		return fmt.Errorf("expected regular total %v but got %v", expected, mc.totals.Regular)
	}
	return nil
}

// thereShouldBeAWarningFor checks the warnings of the last step that produced any
func thereShouldBeAWarningFor(kind, subject string) error {
	for _, w := range sharedWarnings {
		if w.Kind == shared.WarningKind(kind) && w.Subject == subject {
			return nil
		}
	}
	return fmt.Errorf("expected a %s warning for %s, got %v", kind, subject, sharedWarnings)
}

func InitializeMarketScenario(ctx *godog.ScenarioContext) {
	mc := &marketContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		mc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the reduced prices$`, mc.theReducedPrices)
	ctx.Step(`^the extra tracked tickers "([^"]*)"$`, mc.theExtraTrackedTickers)
	ctx.Step(`^the price records$`, mc.thePriceRecords)
	ctx.Step(`^a price table$`, mc.aPriceTable)

	// When steps
	ctx.Step(`^I build the price table$`, mc.iBuildThePriceTable)
	ctx.Step(`^I totalize the quantities$`, mc.iTotalizeTheQuantities)

	// Then steps
	ctx.Step(`^the regular price of "([^"]*)" should be (-?\d+(?:\.\d+)?)$`, mc.theRegularPriceOfShouldBe)
	ctx.Step(`^the reduced price of "([^"]*)" should be (-?\d+(?:\.\d+)?)$`, mc.theReducedPriceOfShouldBe)
	ctx.Step(`^"([^"]*)" should have no reduced price$`, mc.shouldHaveNoReducedPrice)
	ctx.Step(`^"([^"]*)" should have no regular price$`, mc.shouldHaveNoRegularPrice)
	ctx.Step(`^"([^"]*)" should be unpriced$`, mc.shouldBeUnpriced)
	ctx.Step(`^the price table should not track "([^"]*)"$`, mc.thePriceTableShouldNotTrack)
	ctx.Step(`^the price table should track (\d+) tickers$`, mc.thePriceTableShouldTrackTickers)
	ctx.Step(`^the reduced total should be (-?\d+(?:\.\d+)?)$`, mc.theReducedTotalShouldBe)
	ctx.Step(`^the regular total should be (-?\d+(?:\.\d+)?)$`, mc.theRegularTotalShouldBe)
	ctx.Step(`^there should be a "([^"]*)" warning for "([^"]*)"$`, thereShouldBeAWarningFor)
}
