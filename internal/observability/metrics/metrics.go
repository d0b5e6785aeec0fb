package metrics

import "github.com/prometheus/client_golang/prometheus"

// BotMetrics exposes counters/histograms for the webhook relay flow.
type BotMetrics struct {
	inboundTotal   *prometheus.CounterVec
	repliesTotal   *prometheus.CounterVec
	outboundTotal  *prometheus.CounterVec
	webhookLatency prometheus.Histogram
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supportbot",
			Subsystem: "telegram",
			Name:      "inbound_update_total",
			Help:      "Total inbound Telegram webhook updates",
		}, []string{"status"}),
		repliesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supportbot",
			Subsystem: "conversation",
			Name:      "replies_total",
			Help:      "Replies produced, by source branch",
		}, []string{"source"}),
		outboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supportbot",
			Subsystem: "telegram",
			Name:      "outbound_send_total",
			Help:      "Total outbound sendMessage calls",
		}, []string{"status"}),
		webhookLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "supportbot",
			Subsystem: "telegram",
			Name:      "webhook_latency_seconds",
			Help:      "Latency of webhook update processing",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.repliesTotal, m.outboundTotal, m.webhookLatency)
	return m
}

func (m *BotMetrics) ObserveInbound(status string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(status).Inc()
}

func (m *BotMetrics) ObserveReply(source string) {
	if m == nil {
		return
	}
	m.repliesTotal.WithLabelValues(source).Inc()
}

func (m *BotMetrics) ObserveOutbound(status string) {
	if m == nil {
		return
	}
	m.outboundTotal.WithLabelValues(status).Inc()
}

func (m *BotMetrics) ObserveWebhookLatency(seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.Observe(seconds)
}
