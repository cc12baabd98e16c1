package observe

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/waypoint/pkg/nav"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "waypoint").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for operation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "waypoint",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for navigation operations.
type metrics struct {
	opsTotal      *prometheus.CounterVec
	opDuration    *prometheus.HistogramVec
	opErrors      *prometheus.CounterVec
	guardVetoes   prometheus.Counter
	redirectAbort prometheus.Counter
	resyncsTotal  prometheus.Counter
}

// globalMetrics is the singleton metrics instance, created on the
// first call to Prometheus().
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		opsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "ops_total",
			Help:        "Total number of navigation operations by kind and outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"coordinator", "kind", "status"}),

		opDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "op_duration_seconds",
			Help:        "Navigation operation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"coordinator", "kind"}),

		opErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "op_errors_total",
			Help:        "Total number of navigation operation errors",
			ConstLabels: config.ConstLabels,
		}, []string{"coordinator", "kind"}),

		guardVetoes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "guard_vetoes_total",
			Help:        "Total number of removals vetoed by a guard",
			ConstLabels: config.ConstLabels,
		}),

		redirectAbort: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "redirect_aborts_total",
			Help:        "Total number of operations abandoned by a redirect",
			ConstLabels: config.ConstLabels,
		}),

		resyncsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resyncs_total",
			Help:        "Total number of location resync signals",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Prometheus creates middleware that collects Prometheus metrics for
// navigation operations.
//
// Metrics collected:
//   - waypoint_ops_total: Counter of operations by coordinator, kind, and status
//   - waypoint_op_duration_seconds: Histogram of operation duration
//   - waypoint_op_errors_total: Counter of failed operations
//   - waypoint_guard_vetoes_total: Counter of guard vetoes
//   - waypoint_redirect_aborts_total: Counter of redirect aborts
//   - waypoint_resyncs_total: Counter of resync signals (via RecordResync)
func Prometheus(opts ...MetricsOption) nav.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return nav.MiddlewareFunc(func(op *nav.Op, next func() error) error {
		start := time.Now()
		err := next()
		duration := time.Since(start).Seconds()

		coord := op.Coordinator.Label()
		kind := string(op.Kind)

		m.opDuration.WithLabelValues(coord, kind).Observe(duration)
		m.opsTotal.WithLabelValues(coord, kind, string(op.Status)).Inc()

		switch op.Status {
		case nav.StatusVetoed:
			m.guardVetoes.Inc()
		case nav.StatusAborted:
			if err == nil {
				m.redirectAbort.Inc()
			}
		}
		if err != nil {
			m.opErrors.WithLabelValues(coord, kind).Inc()
		}

		return err
	})
}

// RecordResync records a location resync signal. Wire it to the
// coordinator:
//
//	c.OnResync(observe.RecordResync)
func RecordResync() {
	if globalMetrics != nil {
		globalMetrics.resyncsTotal.Inc()
	}
}
