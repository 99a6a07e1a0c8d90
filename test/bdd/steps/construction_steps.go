package steps

import (
	"context"
	"fmt"
	"slices"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/prun-ccc/internal/domain/construction"
)

type constructionContext struct {
	catalog     *construction.Catalog
	planet      construction.Planet
	plan        *construction.Plan
	resolved    []construction.MaterialAmount
	aggregation construction.Aggregation
	opts        construction.AggregateOptions
}

func (cc *constructionContext) reset() {
	cc.catalog = construction.NewCatalog(nil)
	cc.planet = construction.Planet{}
	cc.plan = &construction.Plan{}
	cc.resolved = nil
	cc.aggregation = construction.Aggregation{}
	cc.opts = construction.AggregateOptions{}
}

// Setup steps

func (cc *constructionContext) theBuildingCatalog(table *godog.Table) error {
	buildings, err := parseBuildingTable(table)
	if err != nil {
		return err
	}
	cc.catalog = construction.NewCatalog(buildings)
	return nil
}

func (cc *constructionContext) aPlanetWithPressureAndTemperature(surface, id string, pressure, temperature float64) error {
	planet, err := newPlanet(surface, id, pressure, temperature)
	if err != nil {
		return err
	}
	cc.planet = planet
	return nil
}

func (cc *constructionContext) aPlanWithBuildings(table *godog.Table) error {
	entries, err := parsePlanEntries(table)
	if err != nil {
		return err
	}
	cc.plan = &construction.Plan{PlanetID: cc.planet.ID, Buildings: entries}
	return nil
}

func (cc *constructionContext) thePlanHasInfrastructure(table *godog.Table) error {
	entries, err := parsePlanEntries(table)
	if err != nil {
		return err
	}
	cc.plan.Infrastructure = entries
	return nil
}

// Action steps

func (cc *constructionContext) iResolveTheMaterialsOf(ticker string) error {
	building, ok := cc.catalog.Lookup(ticker)
	if !ok {
		return fmt.Errorf("building %s not in catalog", ticker)
	}
	cc.resolved = construction.CollectMaterials(building, cc.planet)
	return nil
}

func (cc *constructionContext) aggregate() error {
	if sharedPriceTable == nil {
		return fmt.Errorf("no price table given")
	}
	cc.aggregation = construction.AggregateWithOptions(cc.plan, cc.catalog, cc.planet, sharedPriceTable, cc.opts)
	sharedWarnings = cc.aggregation.Warnings
	return nil
}

func (cc *constructionContext) iAggregateThePlan() error {
	return cc.aggregate()
}

func (cc *constructionContext) iAggregateThePlanWithoutTheCoreBuilding() error {
	cc.opts.SkipCore = true
	return cc.aggregate()
}

// Assertion steps

func (cc *constructionContext) theResolvedMaterialsShouldBe(expected string) error {
	if got := formatMaterials(cc.resolved); got != expected {
		return fmt.Errorf("expected materials %s but got %s", expected, got)
	}
	return nil
}

func (cc *constructionContext) theQuantitiesShouldBe(expected string) error {
	return expectQuantities(expected, cc.aggregation.Quantities)
}

func (cc *constructionContext) aggregatingInReverseOrderShouldGiveTheSameQuantities() error {
	reversed := &construction.Plan{
		PlanetID:       cc.plan.PlanetID,
		Buildings:      slices.Clone(cc.plan.Buildings),
		Infrastructure: slices.Clone(cc.plan.Infrastructure),
	}
	slices.Reverse(reversed.Buildings)
	slices.Reverse(reversed.Infrastructure)

	again := construction.AggregateWithOptions(reversed, cc.catalog, cc.planet, sharedPriceTable, cc.opts)
	if formatQuantities(again.Quantities) != formatQuantities(cc.aggregation.Quantities) {
		return fmt.Errorf("reverse order gave %s, original order gave %s",
			formatQuantities(again.Quantities), formatQuantities(cc.aggregation.Quantities))
	}
	return nil
}

func InitializeConstructionScenario(ctx *godog.ScenarioContext) {
	cc := &constructionContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		cc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the building catalog$`, cc.theBuildingCatalog)
	ctx.Step(`^a "([^"]*)" planet "([^"]*)" with pressure (-?\d+(?:\.\d+)?) and temperature (-?\d+(?:\.\d+)?)$`, cc.aPlanetWithPressureAndTemperature)
	ctx.Step(`^a plan with buildings$`, cc.aPlanWithBuildings)
	ctx.Step(`^the plan has infrastructure$`, cc.thePlanHasInfrastructure)

	// When steps
	ctx.Step(`^I resolve the materials of "([^"]*)"$`, cc.iResolveTheMaterialsOf)
	ctx.Step(`^I aggregate the plan$`, cc.iAggregateThePlan)
	ctx.Step(`^I aggregate the plan without the core building$`, cc.iAggregateThePlanWithoutTheCoreBuilding)

	// Then steps
	ctx.Step(`^the resolved materials should be "([^"]*)"$`, cc.theResolvedMaterialsShouldBe)
	ctx.Step(`^the quantities should be "([^"]*)"$`, cc.theQuantitiesShouldBe)
	ctx.Step(`^aggregating the plan in reverse order should give the same quantities$`, cc.aggregatingInReverseOrderShouldGiveTheSameQuantities)
}
