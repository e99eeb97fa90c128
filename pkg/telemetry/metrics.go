package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures Metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vbind").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for compile duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures Metrics.
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
		Namespace: "vbind",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the engine and transport metrics.
//
// Metrics collected (with the default namespace):
//   - vbind_watchers_created_total: Counter of installed watchers by directive
//   - vbind_watcher_updates_total: Counter of notifications by result (fired, skipped)
//   - vbind_diagnostics_total: Counter of compile diagnostics by code
//   - vbind_compile_duration_seconds: Histogram of Compile duration
//   - vbind_live_sessions: Gauge of open live sessions
//   - vbind_live_frames_total: Counter of WebSocket frames by direction (in, out)
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	watchersCreated *prometheus.CounterVec
	watcherUpdates  *prometheus.CounterVec
	diagnostics     *prometheus.CounterVec
	compileDuration prometheus.Histogram
	liveSessions    prometheus.Gauge
	liveFrames      *prometheus.CounterVec
}

// NewMetrics creates and registers the metrics. Registering twice on the same
// registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		watchersCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "watchers_created_total",
			Help:        "Total number of watchers installed by directive",
			ConstLabels: config.ConstLabels,
		}, []string{"directive"}),

		watcherUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "watcher_updates_total",
			Help:        "Total number of watcher notifications by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "diagnostics_total",
			Help:        "Total number of compile diagnostics by code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		compileDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "compile_duration_seconds",
			Help:        "Template compile duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		liveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_sessions",
			Help:        "Number of open live WebSocket sessions",
			ConstLabels: config.ConstLabels,
		}),

		liveFrames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_frames_total",
			Help:        "Total WebSocket frames by direction",
			ConstLabels: config.ConstLabels,
		}, []string{"direction"}),
	}
}

// WatcherCreated implements binding.Hooks.
func (m *Metrics) WatcherCreated(directive string) {
	if m == nil {
		return
	}
	m.watchersCreated.WithLabelValues(directive).Inc()
}

// WatcherUpdated implements binding.Hooks.
func (m *Metrics) WatcherUpdated(key string, fired bool) {
	if m == nil {
		return
	}
	result := "skipped"
	if fired {
		result = "fired"
	}
	m.watcherUpdates.WithLabelValues(result).Inc()
}

// Diagnostic implements binding.Hooks.
func (m *Metrics) Diagnostic(code string) {
	if m == nil {
		return
	}
	m.diagnostics.WithLabelValues(code).Inc()
}

// ObserveCompile records how long one Compile call took.
func (m *Metrics) ObserveCompile(d time.Duration) {
	if m == nil {
		return
	}
	m.compileDuration.Observe(d.Seconds())
}

// SessionOpened records a new live session.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.liveSessions.Inc()
}

// SessionClosed records a closed live session.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.liveSessions.Dec()
}

// FrameReceived records a frame read from a client.
func (m *Metrics) FrameReceived() {
	if m == nil {
		return
	}
	m.liveFrames.WithLabelValues("in").Inc()
}

// FramesSent records frames written to a client.
func (m *Metrics) FramesSent(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.liveFrames.WithLabelValues("out").Add(float64(count))
}
