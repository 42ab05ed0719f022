package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom application metrics
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Auth Metrics
	SignupsTotal          *prometheus.CounterVec
	LoginsTotal           *prometheus.CounterVec
	TokenValidationsTotal *prometheus.CounterVec

	// Cache (Redis) Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance with every metric registered
func NewMetrics() *Metrics {
	return &Metrics{
		// HTTP Metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		// Auth Metrics
		SignupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_signups_total",
				Help: "Total number of signup attempts",
			},
			[]string{"status"}, // status: success, conflict, error
		),

		LoginsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_logins_total",
				Help: "Total number of login attempts",
			},
			[]string{"status"}, // status: success, unauthorized, error
		),

		TokenValidationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_token_validations_total",
				Help: "Total number of bearer token validations",
			},
			[]string{"result"}, // result: valid, expired, invalid
		),

		// Cache Metrics
		CacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"key_type"},
		),

		CacheMissesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"key_type"},
		),
	}
}

// GlobalMetrics is the process-wide Metrics instance
var GlobalMetrics *Metrics

// InitMetrics initializes the global metrics. Idempotent: promauto
// panics on duplicate registration, so a second call is a no-op.
func InitMetrics() {
	if GlobalMetrics == nil {
		GlobalMetrics = NewMetrics()
	}
}
