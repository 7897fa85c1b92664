package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for the chat pipeline.
type ChatMetrics struct {
	chatTotal       *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	rewriteTotal    *prometheus.CounterVec
	activeSessions  prometheus.Gauge
	sweptTotal      prometheus.Counter
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		chatTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dentalbot",
			Subsystem: "chat",
			Name:      "requests_total",
			Help:      "Total chat turns by outcome",
		}, []string{"status"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dentalbot",
			Subsystem: "chat",
			Name:      "provider_latency_seconds",
			Help:      "Latency of LLM provider completions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		rewriteTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dentalbot",
			Subsystem: "chat",
			Name:      "rewrite_rules_total",
			Help:      "Total response rewrites by rule",
		}, []string{"rule"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dentalbot",
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Sessions currently live in the store",
		}),
		sweptTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dentalbot",
			Subsystem: "sessions",
			Name:      "swept_total",
			Help:      "Total sessions evicted by the sweeper",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.chatTotal, m.providerLatency, m.rewriteTotal, m.activeSessions, m.sweptTotal)
	return m
}

func (m *ChatMetrics) ObserveChat(status string) {
	if m == nil {
		return
	}
	m.chatTotal.WithLabelValues(status).Inc()
}

func (m *ChatMetrics) ObserveProviderLatency(provider string, seconds float64) {
	if m == nil {
		return
	}
	m.providerLatency.WithLabelValues(provider).Observe(seconds)
}

func (m *ChatMetrics) ObserveRewriteRule(rule string) {
	if m == nil {
		return
	}
	m.rewriteTotal.WithLabelValues(rule).Inc()
}

func (m *ChatMetrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

func (m *ChatMetrics) ObserveSwept(n int) {
	if m == nil {
		return
	}
	m.sweptTotal.Add(float64(n))
}
