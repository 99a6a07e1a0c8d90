package metrics

import (
	"context"
	"time"

	"github.com/andrescamacho/prun-ccc/internal/application/common"
	"github.com/andrescamacho/prun-ccc/internal/application/mediator"
)

// PrometheusMiddleware records duration and outcome of every mediator request.
// A nil collector passes requests through untouched.
func PrometheusMiddleware(collector *RequestMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		end := collector.Begin(common.RequestName(request))
		response, err := next(ctx, request)
		end(time.Since(start).Seconds(), err)

		return response, err
	}
}
