// Package metrics exposes Prometheus collectors for the rainwater service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rainwater"

// Metrics holds the collectors of one service instance on its own registry.
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	computations   *prometheus.CounterVec
	computeLatency *prometheus.HistogramVec
	profileLength  prometheus.Histogram
	trappedWater   prometheus.Histogram
	rejections     *prometheus.CounterVec
}

// New creates and registers the collectors. Process and Go runtime
// collectors are included when withRuntime is true.
func New(withRuntime bool) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"service", "method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		}, []string{"service", "method", "path"}),

		computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trap",
			Name:      "computations_total",
			Help:      "Total number of trap computations by method.",
		}, []string{"method"}),
		computeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "trap",
			Name:      "computation_duration_seconds",
			Help:      "Duration of trap computations.",
			Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 12), // 1us to ~4s
		}, []string{"method"}),
		profileLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "trap",
			Name:      "profile_length",
			Help:      "Number of heights per computed profile.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 11),
		}),
		trappedWater: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "trap",
			Name:      "trapped_water_units",
			Help:      "Trapped water per computed profile.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
		}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trap",
			Name:      "rejections_total",
			Help:      "Requests rejected before computing, by error code.",
		}, []string{"code"}),
	}

	m.Registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.computations,
		m.computeLatency,
		m.profileLength,
		m.trappedWater,
		m.rejections,
	)
	if withRuntime {
		m.Registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
		)
	}
	return m
}

// Handler returns an HTTP handler exposing the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// IncrementInFlight marks the start of a request.
func (m *Metrics) IncrementInFlight() {
	m.httpInFlight.Inc()
}

// DecrementInFlight marks the end of a request.
func (m *Metrics) DecrementInFlight() {
	m.httpInFlight.Dec()
}

// RecordHTTPRequest records a completed HTTP request.
func (m *Metrics) RecordHTTPRequest(service, method, path, status string, duration time.Duration) {
	m.httpRequests.WithLabelValues(service, method, path, status).Inc()
	m.httpDuration.WithLabelValues(service, method, path).Observe(duration.Seconds())
}

// RecordComputation records one trap computation.
func (m *Metrics) RecordComputation(method string, length, water int, duration time.Duration) {
	if method == "" {
		method = "unknown"
	}
	m.computations.WithLabelValues(method).Inc()
	m.computeLatency.WithLabelValues(method).Observe(duration.Seconds())
	m.profileLength.Observe(float64(length))
	m.trappedWater.Observe(float64(water))
}

// RecordRejection records a request refused with the given error code.
func (m *Metrics) RecordRejection(code string) {
	m.rejections.WithLabelValues(code).Inc()
}
