// Package metrics exports xtoast lifecycle events as Prometheus metrics.
//
//	reg := prometheus.NewRegistry()
//	bus, closeBus, err := xtoast.New(func(b *xtoast.BusBuilder) {
//	    b.WithObserver(metrics.New(metrics.WithRegistry(reg)))
//	})
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/trickstertwo/xtoast"
)

// Config configures the Prometheus observer.
type Config struct {
	// Namespace is the metrics namespace (default: "xtoast").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for on-screen time, in seconds.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus observer.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) { c.Namespace = namespace }
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) { c.Subsystem = subsystem }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) { c.ConstLabels = labels }
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) { c.Buckets = buckets }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) { c.Registry = registry }
}

func defaultConfig() Config {
	return Config{
		Namespace: "xtoast",
		// Toasts live for seconds; error toasts stay up to 50s.
		Buckets:  []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		Registry: prometheus.DefaultRegisterer,
	}
}

// Observer counts lifecycle events and how long toasts stayed on screen.
// Register one per registry: a second New against the same registry panics.
type Observer struct {
	events  *prometheus.CounterVec
	removed *prometheus.CounterVec
	visible *prometheus.HistogramVec
	errors  prometheus.Counter
}

var _ xtoast.Observer = (*Observer)(nil)

// New creates and registers the observer's collectors.
func New(opts ...Option) *Observer {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.DefaultRegisterer
	}
	if len(cfg.Buckets) == 0 {
		cfg.Buckets = defaultConfig().Buckets
	}

	factory := promauto.With(cfg.Registry)
	return &Observer{
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "events_total",
			Help:        "Toast lifecycle events by type and kind",
			ConstLabels: cfg.ConstLabels,
		}, []string{"type", "kind"}),

		removed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "removed_total",
			Help:        "Toasts that left a queue, by cause",
			ConstLabels: cfg.ConstLabels,
		}, []string{"cause"}),

		visible: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "visible_seconds",
			Help:        "Time a toast stayed in its queue",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"kind"}),

		errors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "callback_errors_total",
			Help:        "Recovered panics in hooks, subscribers and watchers",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

// OnEvent implements xtoast.Observer.
func (o *Observer) OnEvent(e xtoast.Event) {
	kind := kindLabel(e.Kind)
	o.events.WithLabelValues(string(e.Type), kind).Inc()

	switch e.Type {
	case xtoast.EventRemoved, xtoast.EventEvicted:
		o.removed.WithLabelValues(string(e.Cause)).Inc()
		if e.Duration > 0 {
			o.visible.WithLabelValues(kind).Observe(e.Duration.Seconds())
		}
	case xtoast.EventError:
		o.errors.Inc()
	}
}

// kindLabel keeps caller-supplied kinds from inflating label cardinality.
func kindLabel(k xtoast.Kind) string {
	if k == "" {
		return "none"
	}
	if !k.Valid() {
		return "unknown"
	}
	return string(k)
}
