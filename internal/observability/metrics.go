package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riskibarqy/federation-awards/internal/platform/resilience"
)

const metricsNamespace = "federation_awards"

// Metrics owns a private registry so tests and the CLI never touch the global one.
type Metrics struct {
	registry *prometheus.Registry

	gatewayRequests *prometheus.CounterVec
	gatewayLatency  *prometheus.HistogramVec
	circuitState    *prometheus.GaugeVec
	exports         *prometheus.CounterVec
	diplomas        *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		gatewayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Federation API calls by resource and outcome.",
		}, []string{"resource", "outcome"}),
		gatewayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Federation API call latency including retries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource"}),
		circuitState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "gateway",
			Name:      "circuit_state",
			Help:      "1 for the current state of each circuit breaker, 0 otherwise.",
		}, []string{"breaker", "state"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "exports_total",
			Help:      "Generated result exports by format.",
		}, []string{"format"}),
		diplomas: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "diplomas_total",
			Help:      "Diploma documents by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.gatewayRequests,
		m.gatewayLatency,
		m.circuitState,
		m.exports,
		m.diplomas,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveRequest(resource, outcome string, elapsed time.Duration) {
	m.gatewayRequests.WithLabelValues(resource, outcome).Inc()
	if elapsed > 0 {
		m.gatewayLatency.WithLabelValues(resource).Observe(elapsed.Seconds())
	}
}

// CircuitStateChanged matches resilience.StateChangeFunc.
func (m *Metrics) CircuitStateChanged(name string, _, to resilience.CircuitState) {
	for _, state := range []resilience.CircuitState{
		resilience.CircuitStateClosed,
		resilience.CircuitStateOpen,
		resilience.CircuitStateHalfOpen,
	} {
		value := 0.0
		if state == to {
			value = 1
		}
		m.circuitState.WithLabelValues(name, string(state)).Set(value)
	}
}

func (m *Metrics) ExportGenerated(format string) {
	m.exports.WithLabelValues(format).Inc()
}

func (m *Metrics) DiplomaGenerated(outcome string) {
	m.diplomas.WithLabelValues(outcome).Inc()
}
