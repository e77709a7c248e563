package tracing

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/propagation"
)

// TraceParentEnv is the environment variable a parent process can use to
// pass its W3C trace context to the CLI.
const TraceParentEnv = "TRACEPARENT"

var traceContext = propagation.TraceContext{}

// ExtractFromEnv continues the trace named by TRACEPARENT and TRACESTATE,
// if set.
func ExtractFromEnv(ctx context.Context) context.Context {
	parent := os.Getenv(TraceParentEnv)
	if parent == "" {
		return ctx
	}
	return traceContext.Extract(ctx, propagation.MapCarrier{
		"traceparent": parent,
		"tracestate":  os.Getenv("TRACESTATE"),
	})
}
