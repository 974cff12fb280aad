package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sports_booking"

// Metricsはアプリ固有のPrometheusメトリクス。nilレシーバでも安全に呼べる
type Metrics struct {
	tokenFailures     *prometheus.CounterVec
	tokenRotations    *prometheus.CounterVec
	tokensSwept       prometheus.Counter
	availabilityCalls *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		tokenFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "token_failures_total",
				Help:      "Rejected tokens by token type and failure kind",
			},
			[]string{"token_type", "kind"},
		),
		tokenRotations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "refresh_rotations_total",
				Help:      "Refresh token rotations by result",
			},
			[]string{"result"},
		),
		tokensSwept: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "refresh_tokens_swept_total",
				Help:      "Expired refresh token records deleted by the sweeper",
			},
		),
		availabilityCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "facility",
				Name:      "availability_requests_total",
				Help:      "Availability computations by result",
			},
			[]string{"result"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.tokenFailures,
			m.tokenRotations,
			m.tokensSwept,
			m.availabilityCalls,
			m.httpRequests,
			m.httpDuration,
		)
	}
	return m
}

// kind: invalid / expired / revoked / reused / not_found
func (m *Metrics) TokenFailure(tokenType, kind string) {
	if m == nil {
		return
	}
	m.tokenFailures.WithLabelValues(tokenType, kind).Inc()
}

func (m *Metrics) Rotation(result string) {
	if m == nil {
		return
	}
	m.tokenRotations.WithLabelValues(result).Inc()
}

func (m *Metrics) Swept(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.tokensSwept.Add(float64(n))
}

func (m *Metrics) Availability(result string) {
	if m == nil {
		return
	}
	m.availabilityCalls.WithLabelValues(result).Inc()
}

func (m *Metrics) HTTPRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

// 以下はテストで値を読むため
func (m *Metrics) TokenFailureCounter(tokenType, kind string) prometheus.Counter {
	return m.tokenFailures.WithLabelValues(tokenType, kind)
}

func (m *Metrics) RotationCounter(result string) prometheus.Counter {
	return m.tokenRotations.WithLabelValues(result)
}

func (m *Metrics) SweptCounter() prometheus.Counter {
	return m.tokensSwept
}

func (m *Metrics) AvailabilityCounter(result string) prometheus.Counter {
	return m.availabilityCalls.WithLabelValues(result)
}

func (m *Metrics) HTTPRequestCounter(method, route, status string) prometheus.Counter {
	return m.httpRequests.WithLabelValues(method, route, status)
}
