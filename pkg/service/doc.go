// Package service orchestrates the rule engine and the rule store.
//
// The Service parses rule text into canonical trees, stores them, evaluates
// stored rules against records and combines stored rules into new ones.
// Every operation is logged, counted in the metrics collector and wrapped in
// a tracing span; a nil collector or tracer disables that instrumentation.
//
//	svc := service.New(store.NewMemoryStore(), service.Options{Logger: logger})
//	rule, err := svc.CreateRule(ctx, "adults", "age > 18")
//	ok, err := svc.EvaluateRule(ctx, rule.ID, evaluator.Record{"age": 30})
package service
