package config

import "time"

// Config is the root configuration structure for the rule engine.
// It is typically loaded from a YAML file with environment variable overrides.
type Config struct {
	// Server configures the HTTP transport.
	Server ServerConfig `yaml:"server"`

	// Engine configures parser limits.
	Engine EngineConfig `yaml:"engine"`

	// Storage selects and configures the rule store.
	Storage StorageConfig `yaml:"storage"`

	// Ruleset configures the optional rule definition file loaded at startup.
	Ruleset RulesetConfig `yaml:"ruleset"`

	// Telemetry configures logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// ListenAddress is the address the server binds to (e.g., "127.0.0.1:8080").
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size.
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits request body size. Larger bodies are rejected with 413.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS configures cross-origin access.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	Enabled          bool     `yaml:"enabled"`
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	ExposedHeaders   []string `yaml:"exposed_headers"`
	MaxAge           int      `yaml:"max_age"`
	AllowCredentials bool     `yaml:"allow_credentials"`
}

// EngineConfig contains parser limits.
type EngineConfig struct {
	// MaxRuleLength is the longest rule string accepted, in bytes. Zero or
	// negative disables the check.
	MaxRuleLength int `yaml:"max_rule_length"`

	// MaxDepth is the deepest parenthesis nesting accepted. Zero or negative
	// disables the check.
	MaxDepth int `yaml:"max_depth"`
}

// StorageConfig selects the rule store backend.
type StorageConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `yaml:"backend"`

	// SQLite configures the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// SQLiteConfig contains SQLite-specific settings.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string `yaml:"path"`

	// Driver is "sqlite" (modernc, pure Go) or "sqlite3" (mattn, cgo).
	Driver string `yaml:"driver"`

	// BusyTimeout is how long a connection waits on a locked database.
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// MaxOpenConns limits open connections.
	MaxOpenConns int `yaml:"max_open_conns"`

	// CheckpointSchedule is a cron expression for WAL checkpoints. Empty disables.
	CheckpointSchedule string `yaml:"checkpoint_schedule"`
}

// RulesetConfig describes a rule definition file synced into the store.
type RulesetConfig struct {
	// Path is the YAML rule definition file. Empty disables loading.
	Path string `yaml:"path"`

	// Watch reloads the file when it changes.
	Watch bool `yaml:"watch"`

	// DebounceInterval coalesces bursts of file events.
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `yaml:"level"`

	// Format is one of "json", "text", "console".
	Format string `yaml:"format"`

	// AddSource includes file and line in log records.
	AddSource bool `yaml:"add_source"`

	// RedactKeys lists attribute keys whose values are replaced in log output.
	RedactKeys []string `yaml:"redact_keys"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled exposes metrics on Path.
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path of the metrics endpoint.
	Path string `yaml:"path"`

	// Namespace prefixes all metric names.
	Namespace string `yaml:"namespace"`

	// Subsystem is placed between namespace and metric name.
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets are histogram buckets in seconds.
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains OpenTelemetry tracing settings.
type TracingConfig struct {
	// Enabled turns on span export.
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address (host:port).
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	Insecure bool `yaml:"insecure"`

	// SampleRatio is the fraction of traces sampled, in [0, 1].
	SampleRatio float64 `yaml:"sample_ratio"`

	// ServiceName is reported as the service.name resource attribute.
	ServiceName string `yaml:"service_name"`

	// Timeout bounds exporter calls.
	Timeout time.Duration `yaml:"timeout"`
}
