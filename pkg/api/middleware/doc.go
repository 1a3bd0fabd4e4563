// Package middleware provides HTTP middleware for the rule engine API.
//
// The server composes them outermost first:
//
//	RecoveryMiddleware -> RequestIDMiddleware -> LoggingMiddleware ->
//	CORSMiddleware -> BodyLimitMiddleware -> MetricsMiddleware -> mux
//
// MetricsMiddleware must wrap the ServeMux directly so that it can read the
// matched route pattern after the mux has handled the request.
package middleware
