package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestChatMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewChatMetrics(reg)
	m.ObserveChat("ok")
	m.ObserveProviderLatency("mock", 0.5)
	m.ObserveRewriteRule("bare_weekday")
	m.SetActiveSessions(3)
	m.ObserveSwept(2)
}

func TestChatMetricsCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewChatMetrics(reg)
	m.ObserveChat("provider_error")
}

func TestChatMetricsNilSafe(t *testing.T) {
	var m *ChatMetrics
	m.ObserveChat("ok")
	m.ObserveProviderLatency("mock", 0.1)
	m.ObserveRewriteRule("rule")
	m.SetActiveSessions(0)
	m.ObserveSwept(0)
}
