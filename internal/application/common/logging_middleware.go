package common

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/prun-ccc/internal/application/mediator"
)

// LoggingMiddleware logs every dispatched request with its duration and outcome
func LoggingMiddleware() mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		logger := LoggerFromContext(ctx)
		name := RequestName(request)
		start := time.Now()

		response, err := next(ctx, request)

		metadata := map[string]interface{}{
			"request":     name,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if err != nil {
			metadata["error"] = err.Error()
			logger.Log("error", "request failed", metadata)
			return response, err
		}
		logger.Log("debug", "request handled", metadata)
		return response, nil
	}
}

// RequestName returns the bare type name of a request, e.g. "CalculateQuoteQuery"
func RequestName(request mediator.Request) string {
	if request == nil {
		return "UnknownRequest"
	}
	fullName := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(fullName, "."); i >= 0 {
		return fullName[i+1:]
	}
	return fullName
}
