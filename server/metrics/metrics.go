// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "todoai"

var (
	// httpRequests counts served requests. Labels: code, method.
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests served",
	}, []string{"code", "method"})

	// httpDuration measures request latency. Labels: code, method.
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"code", "method"})

	// chatTurns counts chat messages answered by the assistant.
	chatTurns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chat",
		Name:      "turns_total",
		Help:      "Total chat messages answered",
	})

	// toolCalls counts assistant tool invocations. Labels: tool, outcome (success, failure).
	toolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "assistant",
		Name:      "tool_calls_total",
		Help:      "Total assistant task tool calls",
	}, []string{"tool", "outcome"})
)

// Instrument wraps next with request counting and latency observation.
func Instrument(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerDuration(httpDuration,
		promhttp.InstrumentHandlerCounter(httpRequests, next))
}

// Handler serves the default registry in the prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveChatTurn() {
	chatTurns.Inc()
}

func ObserveToolCall(tool string, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	toolCalls.WithLabelValues(tool, outcome).Inc()
}
