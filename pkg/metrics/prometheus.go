// Package metrics provides Prometheus metrics for the profile card renderer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Render outcome labels.
const (
	StatusOK          = "ok"
	StatusFetchError  = "fetch_error"
	StatusConfigError = "config_error"
	StatusEncodeError = "encode_error"
)

// Manager owns every metric the renderer exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer
	gatherer         prometheus.Gatherer

	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram

	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
	decodeErrors prometheus.Counter
	remoteErrors prometheus.Counter

	regionSkips *prometheus.CounterVec
}

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry backing the global manager

var globalManager = NewManager(WithPrometheusRegistry(customRegistry)) //nolint:gochecknoglobals // singleton metrics manager

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "profilecard",
		subsystem:        "render",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
		gatherer:         prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.renders = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "renders_total",
		Help:      "Total number of render invocations by outcome",
	}, []string{"status"})

	m.renderDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "render_duration_milliseconds",
		Help:      "Wall time of a full render in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "assets",
		Name:      "cache_hits_total",
		Help:      "Local asset lookups served from the decode cache",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "assets",
		Name:      "cache_misses_total",
		Help:      "Local asset lookups that required a decode",
	})

	m.decodeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "assets",
		Name:      "decode_errors_total",
		Help:      "Local assets that failed to open or decode",
	})

	m.remoteErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "assets",
		Name:      "remote_fetch_errors_total",
		Help:      "Remote images that failed to download or decode",
	})

	m.regionSkips = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "region_skips_total",
		Help:      "Visual regions skipped after a non-fatal asset failure",
	}, []string{"region"})
}

// RecordRender counts one render with the given outcome and duration.
func (m *Manager) RecordRender(status string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.renders.WithLabelValues(status).Inc()
	m.renderDuration.Observe(durationMs)
}

// RecordCacheHit counts a decode cache hit.
func (m *Manager) RecordCacheHit() {
	if m.enabled {
		m.cacheHits.Inc()
	}
}

// RecordCacheMiss counts a decode cache miss.
func (m *Manager) RecordCacheMiss() {
	if m.enabled {
		m.cacheMisses.Inc()
	}
}

// RecordDecodeError counts a failed local decode.
func (m *Manager) RecordDecodeError() {
	if m.enabled {
		m.decodeErrors.Inc()
	}
}

// RecordRemoteError counts a failed remote fetch.
func (m *Manager) RecordRemoteError() {
	if m.enabled {
		m.remoteErrors.Inc()
	}
}

// RecordRegionSkip counts a skipped visual region.
func (m *Manager) RecordRegionSkip(region string) {
	if m.enabled {
		m.regionSkips.WithLabelValues(region).Inc()
	}
}

// Handler returns an HTTP handler serving the manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Global helpers.

// Global returns the process-wide manager.
func Global() *Manager { return globalManager }

func RecordRender(status string, durationMs float64) { globalManager.RecordRender(status, durationMs) }
func RecordCacheHit()                                { globalManager.RecordCacheHit() }
func RecordCacheMiss()                               { globalManager.RecordCacheMiss() }
func RecordDecodeError()                             { globalManager.RecordDecodeError() }
func RecordRemoteError()                             { globalManager.RecordRemoteError() }
func RecordRegionSkip(region string)                 { globalManager.RecordRegionSkip(region) }

// Handler serves the global registry.
func Handler() http.Handler { return globalManager.Handler() }
