package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"meshagotchi/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCommandsTotal(command string)
	IncNotificationsTotal(kind string)
	IncFramesSent()
	SetPetsAlive(count int)
	ObserveAIRequestDuration(duration time.Duration)
	ObservePersistenceDuration(duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	commandsTotal       *prometheus.CounterVec
	notificationsTotal  *prometheus.CounterVec
	framesSent          prometheus.Counter
	petsAlive           prometheus.Gauge
	aiRequestDuration   prometheus.Histogram
	persistenceDuration prometheus.Histogram
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCommandsTotal(command string) {
	m.commandsTotal.WithLabelValues(command).Inc()
}

func (m *MetricsProvider) IncNotificationsTotal(kind string) {
	m.notificationsTotal.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) IncFramesSent() {
	m.framesSent.Inc()
}

func (m *MetricsProvider) SetPetsAlive(count int) {
	m.petsAlive.Set(float64(count))
}

func (m *MetricsProvider) ObserveAIRequestDuration(duration time.Duration) {
	m.aiRequestDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mag_requests_total",
			Help: "Total number of admin HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mag_request_duration_seconds",
			Help:    "Admin HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		commandsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mag_commands_total",
			Help: "Total number of processed pet commands",
		}, []string{"command"}),

		notificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mag_notifications_total",
			Help: "Total number of emitted notifications",
		}, []string{"kind"}),

		framesSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mag_frames_sent_total",
			Help: "Total number of outbound mesh frames",
		}),

		petsAlive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "mag_pets_alive",
			Help: "Number of currently living pets",
		}),

		aiRequestDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mag_ai_request_duration_seconds",
			Help:    "Text generation backend request duration",
			Buckets: prometheus.DefBuckets,
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mag_persistence_duration_seconds",
			Help:    "Snapshot save duration",
			Buckets: prometheus.DefBuckets,
		}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mag_cache_hits_total",
			Help: "Render cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mag_cache_misses_total",
			Help: "Render cache misses",
		}),
	}
}

type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(string, int)                 {}
func (n *noopMetrics) ObserveRequestDuration(string, time.Duration) {}
func (n *noopMetrics) IncCommandsTotal(string)                      {}
func (n *noopMetrics) IncNotificationsTotal(string)                 {}
func (n *noopMetrics) IncFramesSent()                               {}
func (n *noopMetrics) SetPetsAlive(int)                             {}
func (n *noopMetrics) ObserveAIRequestDuration(time.Duration)       {}
func (n *noopMetrics) ObservePersistenceDuration(time.Duration)     {}
func (n *noopMetrics) IncCacheHits()                                {}
func (n *noopMetrics) IncCacheMisses()                              {}
