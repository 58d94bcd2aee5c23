package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	gatewayRequests   *prometheus.CounterVec
	gatewayDuration   *prometheus.HistogramVec
	wizardTransitions *prometheus.CounterVec
}

// NewMetrics creates the service collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		gatewayRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "styleai_gateway_requests_total",
				Help: "Provider calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		gatewayDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "styleai_gateway_request_duration_seconds",
				Help:    "Provider call latency",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
			},
			[]string{"operation"},
		),
		wizardTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "styleai_wizard_transitions_total",
				Help: "Wizard transitions by name",
			},
			[]string{"transition"},
		),
	}
	reg.MustRegister(m.gatewayRequests, m.gatewayDuration, m.wizardTransitions)
	return m
}

func (m *Metrics) ObserveGatewayCall(operation, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.gatewayRequests.WithLabelValues(operation, outcome).Inc()
	m.gatewayDuration.WithLabelValues(operation).Observe(took.Seconds())
}

func (m *Metrics) ObserveTransition(transition string) {
	if m == nil {
		return
	}
	m.wizardTransitions.WithLabelValues(transition).Inc()
}
