// Package metrics registers the Prometheus instruments the billing flow and
// HTTP layer report.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	webhookEvents    *prometheus.CounterVec
	webhookRejected  prometheus.Counter
	checkoutSessions *prometheus.CounterVec
	csvImports       *prometheus.CounterVec
}

func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		webhookEvents: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "billing_webhook_events_total",
				Help: "Webhook deliveries by event kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		webhookRejected: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "billing_webhook_rejected_total",
				Help: "Webhook deliveries rejected for a bad signature",
			},
		),
		checkoutSessions: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "billing_checkout_sessions_total",
				Help: "Checkout sessions started, by result",
			},
			[]string{"result"},
		),
		csvImports: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "csv_imports_total",
				Help: "CSV import requests by result",
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) WebhookEvent(kind, outcome string) {
	m.webhookEvents.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) WebhookRejected() {
	m.webhookRejected.Inc()
}

func (m *Metrics) CheckoutSession(result string) {
	m.checkoutSessions.WithLabelValues(result).Inc()
}

func (m *Metrics) CSVImport(result string) {
	m.csvImports.WithLabelValues(result).Inc()
}
