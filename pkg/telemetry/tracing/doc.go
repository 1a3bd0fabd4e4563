// Package tracing provides OpenTelemetry tracing for the rule engine.
//
// When tracing is enabled, spans are batched to an OTLP gRPC collector and
// W3C Trace Context is installed as the global propagator. When disabled, a
// noop tracer is used so instrumented code pays almost nothing.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "rules.evaluate")
//	defer span.End()
//	tracing.SetRuleAttributes(span, rule.ID, rule.Name)
//
// # Sampling
//
// sample_ratio selects the sampler: 1 samples everything, 0 samples nothing
// and anything in between samples by trace ID. Every sampler respects the
// parent span's decision.
package tracing
