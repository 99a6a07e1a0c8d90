package steps

import (
	"context"
	"fmt"
	"math"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/prun-ccc/internal/application/planning"
	"github.com/andrescamacho/prun-ccc/internal/application/sheet"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
)

type costSheetContext struct {
	state            *sheet.State
	err              error
	fragmentWarnings []shared.Warning
}

func (sc *costSheetContext) reset() {
	sc.state = nil
	sc.err = nil
	sc.fragmentWarnings = nil
}

func (sc *costSheetContext) aCostSheetWithThosePrices() error {
	if sharedPriceTable == nil {
		return fmt.Errorf("no price table given")
	}
	sc.state = sheet.NewState()
	sc.state.SetPrices(sharedPriceTable, nil)
	return nil
}

func (sc *costSheetContext) theSheetShowsAQuoteWithQuantities(raw string) error {
	q, err := parseQuantities(raw)
	if err != nil {
		return err
	}
	sc.state.BeginQuote()
	sc.state.ApplyQuote(&planning.Quote{Quantities: q})
	return nil
}

func (sc *costSheetContext) iSetTo(ticker, value string) error {
	sc.err = sc.state.SetOverride(ticker, value)
	return nil
}

func (sc *costSheetContext) iClear(ticker string) error {
	sc.err = sc.state.ClearOverride(ticker)
	return sc.err
}

func (sc *costSheetContext) iLoadTheFragment(fragment string) error {
	sc.fragmentWarnings = sc.state.LoadFragment(fragment)
	return nil
}

func (sc *costSheetContext) theEffectiveQuantitiesShouldBe(expected string) error {
	return expectQuantities(expected, sc.state.Effective())
}

func (sc *costSheetContext) theSheetFragmentShouldBe(expected string) error {
	if got := sc.state.Fragment(); got != expected {
		return fmt.Errorf("expected fragment %q but got %q", expected, got)
	}
	return nil
}

func (sc *costSheetContext) theSheetReducedTotalShouldBe(expected float64) error {
	view := sheet.Render(sc.state)
	if math.Abs(view.ReducedTotal-expected) > 1e-9 {
		return fmt.Errorf("expected sheet reduced total %v but got %v", expected, view.ReducedTotal)
	}
	return nil
}

func (sc *costSheetContext) theSheetRegularTotalShouldBe(expected float64) error {
	view := sheet.Render(sc.state)
	if math.Abs(view.RegularTotal-expected) > 1e-9 {
		return fmt.Errorf("expected sheet regular total %v but got %v", expected, view.RegularTotal)
	}
	return nil
}

func (sc *costSheetContext) theOverrideShouldBeRejected() error {
	if sc.err == nil {
		return fmt.Errorf("expected the override to be rejected")
	}
	if !shared.IsValidationError(sc.err) {
		return fmt.Errorf("expected a validation error but got: %v", sc.err)
	}
	return nil
}

func (sc *costSheetContext) theFragmentShouldHaveProducedWarnings(expected int) error {
	if len(sc.fragmentWarnings) != expected {
		return fmt.Errorf("expected %d fragment warnings but got %d: %v", expected, len(sc.fragmentWarnings), sc.fragmentWarnings)
	}
	return nil
}

func InitializeCostSheetScenario(ctx *godog.ScenarioContext) {
	sc := &costSheetContext{}

	ctx.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		sc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a cost sheet with those prices$`, sc.aCostSheetWithThosePrices)
	ctx.Step(`^the sheet shows a quote with quantities "([^"]*)"$`, sc.theSheetShowsAQuoteWithQuantities)

	// When steps
	ctx.Step(`^I set "([^"]*)" to "([^"]*)"$`, sc.iSetTo)
	ctx.Step(`^I clear "([^"]*)"$`, sc.iClear)
	ctx.Step(`^I load the fragment "([^"]*)"$`, sc.iLoadTheFragment)

	// Then steps
	ctx.Step(`^the effective quantities should be "([^"]*)"$`, sc.theEffectiveQuantitiesShouldBe)
	ctx.Step(`^the sheet fragment should be "([^"]*)"$`, sc.theSheetFragmentShouldBe)
	ctx.Step(`^the sheet reduced total should be (-?\d+(?:\.\d+)?)$`, sc.theSheetReducedTotalShouldBe)
	ctx.Step(`^the sheet regular total should be (-?\d+(?:\.\d+)?)$`, sc.theSheetRegularTotalShouldBe)
	ctx.Step(`^the override should be rejected$`, sc.theOverrideShouldBeRejected)
	ctx.Step(`^the fragment should have produced (\d+) warnings?$`, sc.theFragmentShouldHaveProducedWarnings)
}
