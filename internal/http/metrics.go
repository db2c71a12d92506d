package httpx

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Latency buckets sized for a CRUD API in front of a single database:
// most handlers land well under 50ms, the bcrypt-bound auth paths
// under a second.
var latencyBuckets = []float64{0.002, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

func (r *Router) initMetrics() {
	r.requestTotal = registerCounter(prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "todo",
		Subsystem: "api",
		Name:      "http_requests_total",
		Help:      "Count of processed HTTP requests",
	}, []string{"method", "route", "status"}))

	r.requestLatency = registerHistogram(prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "todo",
		Subsystem: "api",
		Name:      "http_request_duration_seconds",
		Help:      "Latency distribution of HTTP handlers",
		Buckets:   latencyBuckets,
	}, []string{"method", "route", "status"}))

	r.rateLimitHits = registerCounter(prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "todo",
		Subsystem: "api",
		Name:      "rate_limit_hits_total",
		Help:      "Requests rejected by the rate limiter, by registered route and key scope (ip or user)",
	}, []string{"route", "scope"}))
}

// registerCounter registers a vector on the default registry, reusing
// the existing collector when a second Router (tests build several)
// registers the same name.
func registerCounter(v *prometheus.CounterVec) *prometheus.CounterVec {
	if err := prometheus.Register(v); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
	}
	return v
}

func registerHistogram(v *prometheus.HistogramVec) *prometheus.HistogramVec {
	if err := prometheus.Register(v); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
	}
	return v
}

func (r *Router) recordRequestMetrics(method, route string, status int, duration time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	r.requestTotal.With(labels).Inc()
	r.requestLatency.With(labels).Observe(duration.Seconds())
}

func (r *Router) recordRateLimitHit(route, scope string) {
	r.rateLimitHits.With(prometheus.Labels{"route": route, "scope": scope}).Inc()
}
