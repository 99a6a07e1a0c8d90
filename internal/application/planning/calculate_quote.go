package planning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/prun-ccc/internal/adapters/metrics"
	"github.com/andrescamacho/prun-ccc/internal/application/common"
	"github.com/andrescamacho/prun-ccc/internal/application/mediator"
	"github.com/andrescamacho/prun-ccc/internal/domain/construction"
	"github.com/andrescamacho/prun-ccc/internal/domain/market"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
	"github.com/andrescamacho/prun-ccc/pkg/utils"
)

// ErrPricesNotLoaded is returned when a quote is requested before the price table exists
var ErrPricesNotLoaded = errors.New("prices not loaded")

// LinkValidator checks a single user-supplied value against a validation tag
type LinkValidator interface {
	ValidateVar(field string, value interface{}, tag string) error
}

// CalculateQuoteQuery computes the material quantities and totals of a shared plan
type CalculateQuoteQuery struct {
	Link     string
	Prices   *market.PriceTable
	SkipCore bool
}

// Quote is the computed material requirement of one plan
type Quote struct {
	ID         string
	Link       string
	Plan       *construction.Plan
	Planet     construction.Planet
	Quantities market.QuantityMap
	Totals     market.Totals
	Warnings   []shared.Warning
	ComputedAt time.Time
}

// QuoteOptions holds the settings the quote handler needs from configuration
type QuoteOptions struct {
	PlanHost     string
	CoreBuilding string
}

// CalculateQuoteHandler handles CalculateQuoteQuery
type CalculateQuoteHandler struct {
	plans     construction.PlanSource
	planets   construction.PlanetSource
	catalog   *CatalogCache
	validator LinkValidator
	opts      QuoteOptions
	clock     shared.Clock
}

// NewCalculateQuoteHandler creates a new quote handler.
// If clock is nil, uses RealClock.
func NewCalculateQuoteHandler(
	plans construction.PlanSource,
	planets construction.PlanetSource,
	catalog *CatalogCache,
	validator LinkValidator,
	opts QuoteOptions,
	clock shared.Clock,
) *CalculateQuoteHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CalculateQuoteHandler{
		plans:     plans,
		planets:   planets,
		catalog:   catalog,
		validator: validator,
		opts:      opts,
		clock:     clock,
	}
}

// Handle executes the quote query
func (h *CalculateQuoteHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*CalculateQuoteQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if query.Prices == nil {
		return nil, ErrPricesNotLoaded
	}

	link, err := h.parseLink(query.Link)
	if err != nil {
		return nil, err
	}

	quoteID := utils.GenerateQuoteID(link.Path())
	logger := common.LoggerFromContext(ctx)
	logger.Log("info", "calculating quote", map[string]interface{}{
		"quote_id": quoteID,
		"link":     link.String(),
	})

	plan, planet, catalog, err := h.load(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("error loading plan: %w", err)
	}

	agg := construction.AggregateWithOptions(plan, catalog, planet, query.Prices, construction.AggregateOptions{
		CoreBuilding: h.opts.CoreBuilding,
		SkipCore:     query.SkipCore,
	})
	totals := market.Totalize(agg.Quantities, query.Prices)

	catalogWarnings := catalog.Warnings()
	warnings := make([]shared.Warning, 0, len(catalogWarnings)+len(agg.Warnings)+len(totals.Warnings))
	warnings = append(warnings, catalogWarnings...)
	warnings = append(warnings, agg.Warnings...)
	warnings = append(warnings, totals.Warnings...)
	for _, w := range warnings {
		metrics.RecordWarning(string(w.Kind))
		logger.Log("warn", w.Message, map[string]interface{}{
			"quote_id": quoteID,
			"kind":     string(w.Kind),
			"subject":  w.Subject,
		})
	}

	metrics.RecordQuote(totals.Reduced, totals.Regular, len(totals.Lines))
	logger.Log("info", "quote calculated", map[string]interface{}{
		"quote_id": quoteID,
		"planet":   planet.ID,
		"entries":  plan.EntryCount(),
		"reduced":  totals.Reduced,
		"regular":  totals.Regular,
	})

	return &Quote{
		ID:         quoteID,
		Link:       link.String(),
		Plan:       plan,
		Planet:     planet,
		Quantities: agg.Quantities,
		Totals:     totals,
		Warnings:   warnings,
		ComputedAt: h.clock.Now(),
	}, nil
}

// parseLink turns a raw link into a PlanLink or a user-facing ValidationError
func (h *CalculateQuoteHandler) parseLink(raw string) (*construction.PlanLink, error) {
	if h.validator != nil {
		if err := h.validator.ValidateVar("link", raw, "required,url"); err != nil {
			return nil, err
		}
	}
	link, err := construction.ParsePlanLink(raw, h.opts.PlanHost)
	if err != nil {
		return nil, shared.NewValidationError("link", err.Error())
	}
	return link, nil
}

// load fetches plan then planet, with the catalog fetched concurrently
func (h *CalculateQuoteHandler) load(ctx context.Context, link *construction.PlanLink) (*construction.Plan, construction.Planet, *construction.Catalog, error) {
	var (
		plan    *construction.Plan
		planet  construction.Planet
		catalog *construction.Catalog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		plan, err = h.plans.FetchPlan(gctx, link)
		if err != nil {
			return err
		}
		planet, err = h.planets.FetchPlanet(gctx, plan.PlanetID)
		return err
	})
	g.Go(func() error {
		var err error
		catalog, err = h.catalog.Get(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, construction.Planet{}, nil, err
	}
	return plan, planet, catalog, nil
}
