package metrics

import (
	"strconv"
	"time"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics tracks rule engine operations.
//
// Metrics:
//   - operations_total{operation,status}
//   - operation_duration_seconds{operation}
//   - errors_total{kind}
//   - evaluation_results_total{result}
//   - combined_connective_total{connective}
//   - combined_rules (histogram of rules per combination)
//   - stored_rules (gauge)
//   - checkpoints_total{status}
type EngineMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	errorsTotal       *prometheus.CounterVec
	evaluationResults *prometheus.CounterVec
	combinedTotal     *prometheus.CounterVec
	combinedRules     prometheus.Histogram
	storedRules       prometheus.Gauge
	checkpointsTotal  *prometheus.CounterVec
}

// NewEngineMetrics creates and registers engine metrics.
func NewEngineMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *EngineMetrics {
	em := &EngineMetrics{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "operations_total",
				Help:      "Total number of rule engine operations",
			},
			[]string{"operation", "status"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "operation_duration_seconds",
				Help:      "Duration of rule engine operations in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"operation"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "errors_total",
				Help:      "Total number of rule engine errors by kind",
			},
			[]string{"kind"},
		),
		evaluationResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluation_results_total",
				Help:      "Total number of successful evaluations by result",
			},
			[]string{"result"},
		),
		combinedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "combined_connective_total",
				Help:      "Total number of combinations by dominant connective",
			},
			[]string{"connective"},
		),
		combinedRules: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "combined_rules",
				Help:      "Number of rules per combination",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
			},
		),
		storedRules: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "stored_rules",
				Help:      "Number of rules currently stored",
			},
		),
		checkpointsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "checkpoints_total",
				Help:      "Total number of SQLite WAL checkpoint runs",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		em.operationsTotal,
		em.operationDuration,
		em.errorsTotal,
		em.evaluationResults,
		em.combinedTotal,
		em.combinedRules,
		em.storedRules,
		em.checkpointsTotal,
	)

	return em
}

// RecordOperation increments the operation counter and observes its duration.
func (em *EngineMetrics) RecordOperation(operation, status string, duration time.Duration) {
	em.operationsTotal.WithLabelValues(operation, status).Inc()
	em.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordError increments the error counter for kind.
func (em *EngineMetrics) RecordError(kind string) {
	em.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordEvaluation increments the counter for result.
func (em *EngineMetrics) RecordEvaluation(result bool) {
	em.evaluationResults.WithLabelValues(strconv.FormatBool(result)).Inc()
}

// RecordCombine counts a combination.
func (em *EngineMetrics) RecordCombine(connective string, rules int) {
	em.combinedTotal.WithLabelValues(connective).Inc()
	em.combinedRules.Observe(float64(rules))
}

// SetStoredRules sets the stored rules gauge.
func (em *EngineMetrics) SetStoredRules(n int) {
	em.storedRules.Set(float64(n))
}

// RecordCheckpoint counts a checkpoint run.
func (em *EngineMetrics) RecordCheckpoint(status string) {
	em.checkpointsTotal.WithLabelValues(status).Inc()
}
