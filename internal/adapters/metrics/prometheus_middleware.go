package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/uexcorp-go/internal/application/mediator"
)

// resultCounter is implemented by query responses that carry a ranked list
type resultCounter interface {
	ResultCount() int
}

// PrometheusMiddleware creates a middleware that records the duration and
// outcome of every query and command sent through the mediator.
//
// Request names are simplified to the bare type name, so
// "*queries.FindTradingRoutesQuery" becomes "FindTradingRoutesQuery".
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		commandName := extractCommandName(request)
		start := time.Now()

		response, err := next(ctx, request)

		collector.RecordCommandExecution(commandName, time.Since(start).Seconds(), err == nil)
		if counted, ok := response.(resultCounter); ok && err == nil {
			collector.RecordResultCount(commandName, counted.ResultCount())
		}
		return response, err
	}
}

// extractCommandName extracts a clean command name from the request using reflection
func extractCommandName(request mediator.Request) string {
	if request == nil {
		return "UnknownCommand"
	}

	fullName := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	parts := strings.Split(fullName, ".")
	return parts[len(parts)-1]
}
