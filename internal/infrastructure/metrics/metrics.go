package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "onboarding"

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics groups the onboarding collectors on one registry
type Metrics struct {
	registry        *prometheus.Registry
	transitions     *prometheus.CounterVec
	gatewayRequests *prometheus.CounterVec
	gatewayLatency  *prometheus.HistogramVec
}

// New registers the onboarding collectors plus the Go and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Wizard transitions by action, step and outcome.",
		}, []string{"action", "step", "outcome"}),
		gatewayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_requests_total",
			Help:      "Marketplace API calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		gatewayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_request_duration_seconds",
			Help:      "Marketplace API call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	reg.MustRegister(
		m.transitions,
		m.gatewayRequests,
		m.gatewayLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveTransition counts one wizard transition. Nil receivers are ignored.
func (m *Metrics) ObserveTransition(action, step string, err error) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(action, step, outcome(err)).Inc()
}

// ObserveGatewayCall records one marketplace call
func (m *Metrics) ObserveGatewayCall(operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.gatewayRequests.WithLabelValues(operation, outcome(err)).Inc()
	m.gatewayLatency.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
