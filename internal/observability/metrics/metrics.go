package metrics

import "github.com/prometheus/client_golang/prometheus"

// CallMetrics exposes counters/histograms for the voice call flows.
type CallMetrics struct {
	outboundTotal  *prometheus.CounterVec
	webhookTotal   *prometheus.CounterVec
	webhookLatency *prometheus.HistogramVec
	bookingsTotal  *prometheus.CounterVec
}

func NewCallMetrics(reg prometheus.Registerer) *CallMetrics {
	m := &CallMetrics{
		outboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medischedule",
			Subsystem: "calls",
			Name:      "outbound_total",
			Help:      "Total outbound Vapi call attempts",
		}, []string{"outcome"}),
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medischedule",
			Subsystem: "calls",
			Name:      "inbound_webhook_total",
			Help:      "Total inbound Vapi webhooks",
		}, []string{"event_type", "status"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medischedule",
			Subsystem: "calls",
			Name:      "webhook_latency_seconds",
			Help:      "Latency of Vapi webhook processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event_type"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medischedule",
			Subsystem: "bookings",
			Name:      "followup_total",
			Help:      "Total follow-up bookings created from completed calls",
		}, []string{"analyzer"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.outboundTotal, m.webhookTotal, m.webhookLatency, m.bookingsTotal)
	return m
}

func (m *CallMetrics) ObserveOutbound(outcome string) {
	if m == nil {
		return
	}
	m.outboundTotal.WithLabelValues(outcome).Inc()
}

func (m *CallMetrics) ObserveWebhook(eventType, status string) {
	if m == nil {
		return
	}
	m.webhookTotal.WithLabelValues(eventType, status).Inc()
}

func (m *CallMetrics) ObserveWebhookLatency(eventType string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(eventType).Observe(seconds)
}

func (m *CallMetrics) ObserveBooking(analyzer string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(analyzer).Inc()
}
