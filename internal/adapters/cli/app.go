package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/andrescamacho/prun-ccc/internal/adapters/api"
	"github.com/andrescamacho/prun-ccc/internal/adapters/metrics"
	"github.com/andrescamacho/prun-ccc/internal/application/common"
	"github.com/andrescamacho/prun-ccc/internal/application/mediator"
	"github.com/andrescamacho/prun-ccc/internal/application/planning"
	"github.com/andrescamacho/prun-ccc/internal/application/pricing"
	"github.com/andrescamacho/prun-ccc/internal/infrastructure/config"
	"github.com/andrescamacho/prun-ccc/internal/infrastructure/logging"
)

// app wires configuration, adapters and handlers for one command invocation
type app struct {
	cfg      *config.Config
	logger   *logging.Logger
	mediator mediator.Mediator
}

// newApp loads configuration and builds the handler graph
func newApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return newAppWithConfig(cfg, logging.New(cfg.Logging))
}

func newAppWithConfig(cfg *config.Config, logger *logging.Logger) (*app, error) {
	priceCfg, err := cfg.Pricing.PriceTableConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid pricing configuration: %w", err)
	}

	var (
		apiRecorder      metrics.APIMetricsRecorder
		requestCollector *metrics.RequestMetricsCollector
	)
	if cfg.Metrics.Enabled || dumpMetrics {
		metrics.InitRegistry()

		apiCollector := metrics.NewAPIMetricsCollector()
		requestCollector = metrics.NewRequestMetricsCollector()
		quoteCollector := metrics.NewQuoteMetricsCollector()
		for _, c := range []interface{ Register() error }{apiCollector, requestCollector, quoteCollector} {
			if err := c.Register(); err != nil {
				return nil, fmt.Errorf("failed to register metrics: %w", err)
			}
		}
		metrics.SetGlobalQuoteCollector(quoteCollector)
		apiRecorder = apiCollector
	}

	client := api.NewClient(cfg.API, nil, apiRecorder)
	feed := api.NewPriceFeedClient(client, cfg.API.PricesURL)
	planner := api.NewPlannerClient(client, cfg.API.PlannerURL)

	med := mediator.NewMediator()
	med.RegisterMiddleware(common.LoggingMiddleware())
	med.RegisterMiddleware(metrics.PrometheusMiddleware(requestCollector))

	if err := mediator.RegisterHandler[*pricing.GetPriceTableQuery](med,
		pricing.NewGetPriceTableHandler(feed, priceCfg, nil)); err != nil {
		return nil, err
	}
	if err := mediator.RegisterHandler[*planning.CalculateQuoteQuery](med,
		planning.NewCalculateQuoteHandler(
			planner, planner,
			planning.NewCatalogCache(planner),
			config.NewValidator(),
			planning.QuoteOptions{PlanHost: cfg.API.PlanHost, CoreBuilding: cfg.Pricing.CoreBuilding},
			nil,
		)); err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, mediator: med}, nil
}

// context attaches the logger to parent
func (a *app) context(parent context.Context) context.Context {
	return common.WithLogger(parent, a.logger)
}

// prices runs the price table query
func (a *app) prices(ctx context.Context) (*pricing.GetPriceTableResponse, error) {
	resp, err := a.mediator.Send(ctx, &pricing.GetPriceTableQuery{})
	if err != nil {
		return nil, err
	}
	result, ok := resp.(*pricing.GetPriceTableResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type")
	}
	return result, nil
}

// quote runs the quote query against prices
func (a *app) quote(ctx context.Context, query *planning.CalculateQuoteQuery) (*planning.Quote, error) {
	resp, err := a.mediator.Send(ctx, query)
	if err != nil {
		return nil, err
	}
	result, ok := resp.(*planning.Quote)
	if !ok {
		return nil, fmt.Errorf("unexpected response type")
	}
	return result, nil
}

// finish prints the metrics registry when --metrics was given
func (a *app) finish(w io.Writer) error {
	if !dumpMetrics {
		return nil
	}
	fmt.Fprintln(w)
	return metrics.WriteText(w)
}
