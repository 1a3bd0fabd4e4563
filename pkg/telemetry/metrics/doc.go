// Package metrics provides Prometheus metrics for the rule engine.
//
// # Metrics Categories
//
//   - Engine metrics: parse, evaluate and combine counts and durations,
//     errors by kind, evaluation outcomes, combined connectives, stored rules
//   - HTTP metrics: request count, duration and in-flight requests per route
//   - Maintenance metrics: SQLite checkpoint runs
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordOperation("evaluate", "success", time.Since(start))
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// Every metric lives on the collector's own registry, so tests and multiple
// collectors in one process do not collide. A nil *Collector, or one built
// from a disabled config, ignores all recording calls.
package metrics
