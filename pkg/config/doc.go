// Package config loads and validates rule engine configuration.
//
// Configuration comes from a YAML file decoded on top of built-in defaults,
// followed by environment variable overrides and validation:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("rules.yaml")
//
// # Environment Variable Overrides
//
// Variables are named RULES_SECTION_FIELD:
//
//   - RULES_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - RULES_STORAGE_BACKEND overrides storage.backend
//   - RULES_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// A malformed override (for example a duration that does not parse) is a
// validation error rather than being ignored.
//
// # Validation
//
// Validate collects every problem into a single ValidationError, each entry
// a FieldError carrying the dotted field path.
//
// # Singleton
//
// GetConfig, SetConfig, ReloadConfig and MustGetConfig give process-wide
// access for the binary; "ruleengine serve" reloads through it on SIGHUP. Libraries in this module take explicit
// configuration values instead.
package config
