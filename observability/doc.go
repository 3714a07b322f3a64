// Package observability provides OpenTelemetry tracing and metrics for the
// job pipeline.
//
// Setup installs OTLP/HTTP exporters for the enabled signals:
//
//	providers, err := observability.Setup(ctx, cfg.Observability, observability.ServiceInfo{
//	    Name: "beer-inventory", Version: version.GetVersionInfo().Version,
//	})
//	defer providers.Shutdown(ctx)
//
// Tracing:
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanJobRun)
//	defer span.End()
//
// Metrics:
//
//	metrics, err := observability.NewJobMetrics(observability.Meter("beer-inventory"))
//	metrics.RecordRunEnd(ctx, "updateBeerInventory", "COMPLETED", duration, 2, 2)
package observability
