// Package server ties the rule API handlers, health probes and metrics
// endpoint together behind one middleware chain and manages the listener
// lifecycle.
//
// # Basic Usage
//
//	svc := service.New(st, service.Options{Logger: logger, Metrics: collector})
//	srv := server.New(cfg, svc, server.Options{Logger: logger, Metrics: collector})
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Start blocks until ctx is cancelled or Shutdown is called, then drains
// in-flight requests for up to server.shutdown_timeout.
//
// # Routes
//
//   - POST /rules - Create a rule from rule_name and rule_string
//   - GET /rules - List stored rules
//   - GET /rules/{id} - Get a rule with its tree
//   - DELETE /rules/{id} - Delete a rule
//   - POST /rules/{id}/evaluate - Evaluate a rule against {"data": {...}}
//   - POST /rules/combine - Combine stored rules into a new rule
//   - POST /parse - Parse a rule without storing it
//   - GET /health - Liveness probe
//   - GET /ready - Readiness probe (store check)
//   - GET /version - Build information
//   - GET /metrics - Prometheus metrics, when enabled
//
// # Middleware Chain
//
// Requests pass through the following middleware (outermost first):
//  1. Recovery: turns panics into a 500 error body
//  2. RequestID: assigns X-Request-ID and stores it in the context
//  3. Logging: one line per request
//  4. Tracing: server span per request, when a tracer is configured
//  5. CORS: preflight handling and response headers
//  6. BodyLimit: rejects bodies over server.max_body_bytes with 413
//  7. Metrics: request count and latency labelled by route pattern
package server
