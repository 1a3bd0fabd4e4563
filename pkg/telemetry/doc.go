// Package telemetry groups the observability packages used by the rule
// engine.
//
// # Components
//
//   - logging: slog logger construction, request-scoped attributes and key redaction
//   - metrics: Prometheus collector for rule operations and HTTP requests
//   - tracing: OpenTelemetry tracer with OTLP gRPC export
//   - health: liveness, readiness and version endpoints
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	defer tracer.Shutdown(ctx)
//
//	svc := service.New(st, service.Options{Logger: logger, Metrics: collector, Tracer: tracer})
//
// Every component accepts nil for the collector and tracer and then records
// nothing.
package telemetry
