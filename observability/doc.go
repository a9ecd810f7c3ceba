// Package observability wires OpenTelemetry tracing and metrics for analysis runs.
//
// Both providers export over OTLP/HTTP when an endpoint is configured; with no
// endpoint the global no-op providers stay in place and every helper here is
// still safe to call.
//
//	shutdown, err := observability.Init(ctx, cfg, "videoscribe", version.Version)
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanDispatchSegment)
//	defer span.End()
package observability
