package backend

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records outbound calls to the REST API.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	cache    *prometheus.CounterVec
}

var (
	defaultMetricsOnce sync.Once
	defaultMetrics     *Metrics
)

// NewMetrics registers the collectors on registerer, or once on the default
// registerer when registerer is nil.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		defaultMetricsOnce.Do(func() {
			defaultMetrics = buildMetrics(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return buildMetrics(registerer)
}

func buildMetrics(registerer prometheus.Registerer) *Metrics {
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "samlap_backend_requests_total",
		Help: "Calls to the research API by endpoint, method and outcome.",
	}, []string{"endpoint", "method", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "samlap_backend_request_duration_seconds",
		Help:    "Latency of calls to the research API.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
	}, []string{"endpoint", "method"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "samlap_backend_cache_lookups_total",
		Help: "Response cache lookups split by hit or miss.",
	}, []string{"endpoint", "result"})
	registerer.MustRegister(calls, duration, cache)
	return &Metrics{calls: calls, duration: duration, cache: cache}
}

func (m *Metrics) observe(method, path, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	endpoint := endpointLabel(path)
	m.calls.WithLabelValues(endpoint, method, outcome).Inc()
	m.duration.WithLabelValues(endpoint, method).Observe(elapsed.Seconds())
}

func (m *Metrics) cacheLookup(path string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(endpointLabel(path), result).Inc()
}

// endpointLabel keeps the first two path segments so years and member names
// never become label values.
func endpointLabel(path string) string {
	segments := make([]string, 0, 2)
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		segments = append(segments, part)
		if len(segments) == 2 {
			break
		}
	}
	if len(segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(segments, "/")
}
