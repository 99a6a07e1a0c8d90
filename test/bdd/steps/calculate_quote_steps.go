package steps

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/prun-ccc/internal/application/planning"
	"github.com/andrescamacho/prun-ccc/internal/domain/construction"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
	"github.com/andrescamacho/prun-ccc/internal/infrastructure/config"
	"github.com/andrescamacho/prun-ccc/test/helpers"
)

type calculateQuoteContext struct {
	planner *helpers.MockPlanner
	handler *planning.CalculateQuoteHandler
	quote   *planning.Quote
	err     error
}

func (qc *calculateQuoteContext) reset() {
	qc.planner = helpers.NewMockPlanner()
	qc.handler = planning.NewCalculateQuoteHandler(
		qc.planner, qc.planner,
		planning.NewCatalogCache(qc.planner),
		config.NewValidator(),
		planning.QuoteOptions{PlanHost: "prunplanner.org", CoreBuilding: construction.DefaultCoreBuilding},
		shared.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	)
	qc.quote = nil
	qc.err = nil
}

// Planner setup

func (qc *calculateQuoteContext) thePlannerServesTheBuildingCatalog(table *godog.Table) error {
	buildings, err := parseBuildingTable(table)
	if err != nil {
		return err
	}
	for _, b := range buildings {
		qc.planner.AddBuilding(b)
	}
	return nil
}

func (qc *calculateQuoteContext) thePlannerServesAPlanet(surface, id string, pressure, temperature float64) error {
	planet, err := newPlanet(surface, id, pressure, temperature)
	if err != nil {
		return err
	}
	qc.planner.AddPlanet(planet)
	return nil
}

func (qc *calculateQuoteContext) thePlannerServesPlanOnPlanetWithBuildings(path, planetID string, table *godog.Table) error {
	entries, err := parsePlanEntries(table)
	if err != nil {
		return err
	}
	qc.planner.AddPlan(path, &construction.Plan{PlanetID: planetID, Buildings: entries})
	return nil
}

// Quote requests

func (qc *calculateQuoteContext) request(link string, skipCore bool) error {
	if sharedPriceTable == nil {
		return fmt.Errorf("no price table given")
	}
	resp, err := qc.handler.Handle(context.Background(), &planning.CalculateQuoteQuery{
		Link:     link,
		Prices:   sharedPriceTable,
		SkipCore: skipCore,
	})
	qc.quote, qc.err = nil, err
	if err == nil {
		qc.quote = resp.(*planning.Quote)
		sharedWarnings = qc.quote.Warnings
	}
	return nil
}

func (qc *calculateQuoteContext) iRequestAQuoteFor(link string) error {
	return qc.request(link, false)
}

func (qc *calculateQuoteContext) iRequestAQuoteWithoutTheCoreBuildingFor(link string) error {
	return qc.request(link, true)
}

// Assertions

func (qc *calculateQuoteContext) theQuoteShouldSucceed() error {
	if qc.err != nil {
		return fmt.Errorf("expected quote to succeed but got: %w", qc.err)
	}
	if qc.quote == nil || qc.quote.ID == "" {
		return fmt.Errorf("expected a quote with an id")
	}
	return nil
}

func (qc *calculateQuoteContext) theQuoteQuantitiesShouldBe(expected string) error {
	if qc.quote == nil {
		return fmt.Errorf("no quote, error: %v", qc.err)
	}
	return expectQuantities(expected, qc.quote.Quantities)
}

func (qc *calculateQuoteContext) theQuoteReducedTotalShouldBe(expected float64) error {
	if qc.quote == nil {
		return fmt.Errorf("no quote, error: %v", qc.err)
	}
	if math.Abs(qc.quote.Totals.Reduced-expected) > 1e-9 {
		return fmt.Errorf("expected reduced total %v but got %v", expected, qc.quote.Totals.Reduced)
	}
	return nil
}

func (qc *calculateQuoteContext) theQuoteRegularTotalShouldBe(expected float64) error {
	if qc.quote == nil {
		return fmt.Errorf("no quote, error: %v", qc.err)
	}
	if math.Abs(qc.quote.Totals.Regular-expected) > 1e-9 {
		return fmt.Errorf("expected regular total %v but got %v", expected, qc.quote.Totals.Regular)
	}
	return nil
}

func (qc *calculateQuoteContext) theQuoteShouldFailWithAValidationError() error {
	if qc.err == nil {
		return fmt.Errorf("expected a validation error but the quote succeeded")
	}
	if !shared.IsValidationError(qc.err) {
		return fmt.Errorf("expected a validation error but got: %v", qc.err)
	}
	return nil
}

func (qc *calculateQuoteContext) theQuoteShouldFailWith(message string) error {
	if qc.err == nil {
		return fmt.Errorf("expected error containing %q but the quote succeeded", message)
	}
	if !strings.Contains(qc.err.Error(), message) {
		return fmt.Errorf("expected error containing %q but got %q", message, qc.err.Error())
	}
	return nil
}

func (qc *calculateQuoteContext) theBuildingCatalogShouldHaveBeenFetchedTimes(expected int) error {
	if got := qc.planner.CatalogCalls(); got != expected {
		return fmt.Errorf("expected %d catalog fetches but got %d", expected, got)
	}
	return nil
}

func InitializeCalculateQuoteScenario(ctx *godog.ScenarioContext) {
	qc := &calculateQuoteContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		qc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the planner serves the building catalog$`, qc.thePlannerServesTheBuildingCatalog)
	ctx.Step(`^the planner serves a "([^"]*)" planet "([^"]*)" with pressure (-?\d+(?:\.\d+)?) and temperature (-?\d+(?:\.\d+)?)$`, qc.thePlannerServesAPlanet)
	ctx.Step(`^the planner serves plan "([^"]*)" on planet "([^"]*)" with buildings$`, qc.thePlannerServesPlanOnPlanetWithBuildings)

	// When steps
	ctx.Step(`^I request a quote for "([^"]*)"$`, qc.iRequestAQuoteFor)
	ctx.Step(`^I request a quote without the core building for "([^"]*)"$`, qc.iRequestAQuoteWithoutTheCoreBuildingFor)

	// Then steps
	ctx.Step(`^the quote should succeed$`, qc.theQuoteShouldSucceed)
	ctx.Step(`^the quote quantities should be "([^"]*)"$`, qc.theQuoteQuantitiesShouldBe)
	ctx.Step(`^the quote reduced total should be (-?\d+(?:\.\d+)?)$`, qc.theQuoteReducedTotalShouldBe)
	ctx.Step(`^the quote regular total should be (-?\d+(?:\.\d+)?)$`, qc.theQuoteRegularTotalShouldBe)
	ctx.Step(`^the quote should fail with a validation error$`, qc.theQuoteShouldFailWithAValidationError)
	ctx.Step(`^the quote should fail with "([^"]*)"$`, qc.theQuoteShouldFailWith)
	ctx.Step(`^the building catalog should have been fetched (\d+) times?$`, qc.theBuildingCatalogShouldHaveBeenFetchedTimes)
}
