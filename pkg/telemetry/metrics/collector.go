package metrics

import (
	"sync"
	"time"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// otherRoute replaces route labels once the cardinality limit is reached.
const otherRoute = "other"

// Collector owns every Prometheus metric the engine exports.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	engine *EngineMetrics
	http   *HTTPMetrics

	routes *CardinalityLimiter
}

// NewCollector creates a collector registered on registry. A nil registry
// gets a fresh private one. Empty namespace, subsystem and buckets fall back
// to the config package defaults.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg == nil {
		cfg = &config.MetricsConfig{Enabled: true}
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	return &Collector{
		config:   cfg,
		registry: registry,
		engine:   NewEngineMetrics(cfg, registry),
		http:     NewHTTPMetrics(cfg, registry),
		routes:   NewCardinalityLimiter(256),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordOperation records one engine operation ("parse", "evaluate",
// "combine", "create", ...) with its status and duration.
func (c *Collector) RecordOperation(operation, status string, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.engine.RecordOperation(operation, status, duration)
}

// RecordError counts a failure by error kind.
func (c *Collector) RecordError(kind string) {
	if !c.enabled() {
		return
	}
	c.engine.RecordError(kind)
}

// RecordEvaluation counts an evaluation outcome.
func (c *Collector) RecordEvaluation(result bool) {
	if !c.enabled() {
		return
	}
	c.engine.RecordEvaluation(result)
}

// RecordCombine counts the dominant connective chosen for a combination and
// observes how many rules were combined.
func (c *Collector) RecordCombine(connective string, rules int) {
	if !c.enabled() {
		return
	}
	c.engine.RecordCombine(connective, rules)
}

// SetStoredRules sets the stored rules gauge.
func (c *Collector) SetStoredRules(n int) {
	if !c.enabled() {
		return
	}
	c.engine.SetStoredRules(n)
}

// RecordCheckpoint counts a WAL checkpoint run.
func (c *Collector) RecordCheckpoint(status string) {
	if !c.enabled() {
		return
	}
	c.engine.RecordCheckpoint(status)
}

// RecordHTTPRequest records a completed HTTP request. Routes beyond the
// cardinality limit are reported as "other".
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if !c.enabled() {
		return
	}
	if !c.routes.Allow(route) {
		route = otherRoute
	}
	c.http.RecordRequest(method, route, status, duration)
}

// HTTPInFlight adjusts the in-flight request gauge by delta.
func (c *Collector) HTTPInFlight(delta float64) {
	if !c.enabled() {
		return
	}
	c.http.inFlight.Add(delta)
}

// Registry returns the registry the collector's metrics are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter caps the number of distinct label values admitted.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a limiter admitting at most maxCardinality values.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether value is already tracked or still fits under the limit.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	_, exists := cl.current[value]
	cl.mu.RUnlock()
	if exists {
		return true
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()
	if _, exists := cl.current[value]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[value] = struct{}{}
	return true
}

// Count returns how many values are tracked.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
