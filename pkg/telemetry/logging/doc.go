// Package logging builds the structured loggers used across the rule engine.
//
// # Overview
//
// The package configures Go's log/slog with:
//   - JSON, text, and console output formats
//   - Configurable log levels (debug, info, warn, error)
//   - Redaction of record values under configured attribute keys
//   - Request-scoped fields (request id, rule id) carried in the context
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:      "info",
//	    Format:     "json",
//	    RedactKeys: []string{"actual", "record"},
//	})
//
//	ctx = logging.WithRequestID(ctx, "4b8e...")
//	logging.FromContext(ctx, logger).Info("rule evaluated", "result", true)
//	// {"level":"INFO","msg":"rule evaluated","request_id":"4b8e...","result":true}
//
// # Redaction
//
// Input records may hold personal data such as salaries. Attributes whose key
// is listed in RedactKeys are written as "[REDACTED]" at any nesting level.
package logging
