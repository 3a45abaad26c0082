// Package metrics exports toast queue activity to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jmylchreest/toastframe/internal/model"
)

// Config configures the collector.
type Config struct {
	// Namespace is the metrics namespace (default: "toastframe").
	Namespace string

	// Buckets are the histogram buckets for queue wait time.
	Buckets []float64

	// Registry receives the metrics and backs the HTTP handler.
	// Default: a fresh registry.
	Registry *prometheus.Registry
}

// Option configures the collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// WithBuckets sets the queue wait histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "toastframe",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}
}

// Collector is a frame.Observer that records queue activity.
type Collector struct {
	registry *prometheus.Registry

	queued    *prometheus.CounterVec
	presented *prometheus.CounterVec
	handled   *prometheus.CounterVec
	vacated   *prometheus.CounterVec
	cleared   prometheus.Counter
	depth     prometheus.Gauge
	wait      prometheus.Histogram
}

// New creates a Collector and registers its metrics.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}

	factory := promauto.With(config.Registry)
	return &Collector{
		registry: config.Registry,

		queued: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "toasts_queued_total",
			Help:      "Total number of toasts submitted",
		}, []string{"kind"}),

		presented: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "toasts_presented_total",
			Help:      "Total number of toasts shown",
		}, []string{"kind"}),

		handled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "toasts_handled_total",
			Help:      "Total number of toast outcomes",
		}, []string{"kind", "outcome"}),

		vacated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "toasts_vacated_total",
			Help:      "Total number of toasts that left the screen, by whether they had an outcome",
		}, []string{"reason"}),

		cleared: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "toasts_cleared_total",
			Help:      "Total number of pending toasts dropped by a clear",
		}),

		depth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "queue_depth",
			Help:      "Number of toasts waiting behind the visible one",
		}),

		wait: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "queue_wait_seconds",
			Help:      "Time from submission to presentation",
			Buckets:   config.Buckets,
		}),
	}
}

// Registry returns the registry the metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ToastQueued implements frame.Observer.
func (c *Collector) ToastQueued(r *model.Request, pending int) {
	c.queued.WithLabelValues(r.Kind().String()).Inc()
	c.depth.Set(float64(pending))
}

// ToastPresented implements frame.Observer.
func (c *Collector) ToastPresented(r *model.Request, pending int) {
	c.presented.WithLabelValues(r.Kind().String()).Inc()
	c.depth.Set(float64(pending))
	c.wait.Observe(time.Since(r.QueuedAt()).Seconds())
}

// ToastHandled implements frame.Observer.
func (c *Collector) ToastHandled(r *model.Request, outcome model.Outcome) {
	c.handled.WithLabelValues(r.Kind().String(), outcome.String()).Inc()
}

// ToastVacated implements frame.Observer.
func (c *Collector) ToastVacated(_ *model.Request, silent bool) {
	reason := "handled"
	if silent {
		reason = "silent"
	}
	c.vacated.WithLabelValues(reason).Inc()
}

// QueueCleared implements frame.Observer.
func (c *Collector) QueueCleared(discarded int) {
	c.cleared.Add(float64(discarded))
	c.depth.Set(0)
}
