// Package health provides liveness and readiness probes.
//
// A Checker holds named CheckFuncs. Liveness never runs them; readiness runs
// all of them concurrently, each under its own timeout, and reports
// "degraded" if any fails:
//
//	checker := health.New(2 * time.Second)
//	checker.Register("store", func(ctx context.Context) error {
//	    _, err := st.Count(ctx)
//	    return err
//	})
//	mux.Handle("GET /health", checker.LivenessHandler())
//	mux.Handle("GET /ready", checker.ReadinessHandler())
package health
