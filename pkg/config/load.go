package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "RULES_"

// LoadConfig loads configuration from a YAML file at the specified path.
// The file is decoded on top of NewDefaultConfig, remaining zero values are
// defaulted, and the result is validated. An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration like LoadConfig and then
// applies environment variable overrides named RULES_SECTION_FIELD
// (e.g., RULES_SERVER_LISTEN_ADDRESS). Environment variables take precedence
// over the file.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("after environment overrides: %w", err)
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

// envReader applies typed overrides and records malformed values.
type envReader struct {
	lookup lookupFunc
	errs   []FieldError
}

func (r *envReader) get(name string) (string, bool) {
	v, ok := r.lookup(EnvPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (r *envReader) fail(name, msg string) {
	r.errs = append(r.errs, FieldError{Field: EnvPrefix + name, Message: msg})
}

func (r *envReader) str(name string, dst *string) {
	if v, ok := r.get(name); ok {
		*dst = v
	}
}

func (r *envReader) list(name string, dst *[]string) {
	v, ok := r.get(name)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

func (r *envReader) duration(name string, dst *time.Duration) {
	v, ok := r.get(name)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(name, fmt.Sprintf("invalid duration %q", v))
		return
	}
	*dst = d
}

func (r *envReader) integer(name string, dst *int) {
	v, ok := r.get(name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(name, fmt.Sprintf("invalid integer %q", v))
		return
	}
	*dst = n
}

func (r *envReader) integer64(name string, dst *int64) {
	v, ok := r.get(name)
	if !ok {
		return
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		r.fail(name, fmt.Sprintf("invalid integer %q", v))
		return
	}
	*dst = n
}

func (r *envReader) boolean(name string, dst *bool) {
	v, ok := r.get(name)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(name, fmt.Sprintf("invalid boolean %q", v))
		return
	}
	*dst = b
}

func (r *envReader) float(name string, dst *float64) {
	v, ok := r.get(name)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(name, fmt.Sprintf("invalid number %q", v))
		return
	}
	*dst = f
}

// applyEnvOverrides applies RULES_* variables to cfg. Malformed values are
// reported together as a ValidationError.
func applyEnvOverrides(cfg *Config, lookup lookupFunc) error {
	r := &envReader{lookup: lookup}

	r.str("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	r.duration("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	r.duration("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	r.duration("SERVER_IDLE_TIMEOUT", &cfg.Server.IdleTimeout)
	r.duration("SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	r.integer64("SERVER_MAX_BODY_BYTES", &cfg.Server.MaxBodyBytes)
	r.boolean("SERVER_CORS_ENABLED", &cfg.Server.CORS.Enabled)
	r.list("SERVER_CORS_ALLOWED_ORIGINS", &cfg.Server.CORS.AllowedOrigins)

	r.integer("ENGINE_MAX_RULE_LENGTH", &cfg.Engine.MaxRuleLength)
	r.integer("ENGINE_MAX_DEPTH", &cfg.Engine.MaxDepth)

	r.str("STORAGE_BACKEND", &cfg.Storage.Backend)
	r.str("STORAGE_SQLITE_PATH", &cfg.Storage.SQLite.Path)
	r.str("STORAGE_SQLITE_DRIVER", &cfg.Storage.SQLite.Driver)
	r.duration("STORAGE_SQLITE_BUSY_TIMEOUT", &cfg.Storage.SQLite.BusyTimeout)
	r.integer("STORAGE_SQLITE_MAX_OPEN_CONNS", &cfg.Storage.SQLite.MaxOpenConns)
	r.str("STORAGE_SQLITE_CHECKPOINT_SCHEDULE", &cfg.Storage.SQLite.CheckpointSchedule)

	r.str("RULESET_PATH", &cfg.Ruleset.Path)
	r.boolean("RULESET_WATCH", &cfg.Ruleset.Watch)
	r.duration("RULESET_DEBOUNCE_INTERVAL", &cfg.Ruleset.DebounceInterval)

	r.str("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	r.str("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	r.boolean("TELEMETRY_LOGGING_ADD_SOURCE", &cfg.Telemetry.Logging.AddSource)
	r.list("TELEMETRY_LOGGING_REDACT_KEYS", &cfg.Telemetry.Logging.RedactKeys)

	r.boolean("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	r.str("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	r.str("TELEMETRY_METRICS_NAMESPACE", &cfg.Telemetry.Metrics.Namespace)
	r.str("TELEMETRY_METRICS_SUBSYSTEM", &cfg.Telemetry.Metrics.Subsystem)

	r.boolean("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	r.str("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	r.boolean("TELEMETRY_TRACING_INSECURE", &cfg.Telemetry.Tracing.Insecure)
	r.float("TELEMETRY_TRACING_SAMPLE_RATIO", &cfg.Telemetry.Tracing.SampleRatio)
	r.str("TELEMETRY_TRACING_SERVICE_NAME", &cfg.Telemetry.Tracing.ServiceName)
	r.duration("TELEMETRY_TRACING_TIMEOUT", &cfg.Telemetry.Tracing.Timeout)

	if len(r.errs) > 0 {
		return ValidationError{Errors: r.errs}
	}
	return nil
}
