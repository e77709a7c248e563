// Package tracing provides OpenTelemetry tracing for editor operations.
//
// When telemetry.tracing.enabled is false the package hands out no-op spans.
// Otherwise spans are exported over OTLP gRPC to the configured collector:
//
//	tracer, err := tracing.New(ctx, cfg.Telemetry.Tracing, version)
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "hl7.set")
//	defer span.End()
//
// Spans carry message sizes, versions, paths and finding counts, never field
// values. A trace started by a parent process can be continued through the
// TRACEPARENT environment variable.
package tracing
