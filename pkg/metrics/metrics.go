// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// CompletionDuration tracks completion endpoint latency per attempt.
	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_completion_duration_seconds",
			Help:    "Completion endpoint call duration",
			Buckets: []float64{.5, 1, 2, 5, 10, 20, 30, 45, 60, 90},
		},
		[]string{"provider", "status"},
	)

	// CompletionTokensTotal tracks tokens consumed by completions.
	CompletionTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Total LLM tokens processed",
		},
		[]string{"model", "direction"},
	)

	// CompletionRetriesTotal counts retried completion attempts.
	CompletionRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_completion_retries_total",
			Help: "Completion attempts retried after a transient failure",
		},
		[]string{"provider"},
	)

	// NormalizationTotal counts which parse path produced each analysis result.
	NormalizationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "normalizer_results_total",
			Help: "Normalized model outputs by parse path",
		},
		[]string{"path"},
	)

	// ShoppingQueriesTotal counts extractor outcomes by winning rule.
	ShoppingQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopping_queries_total",
			Help: "Shopping query extractions by rule",
		},
		[]string{"rule"},
	)

	// ScoreDecisionsTotal counts score visibility decisions.
	ScoreDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "score_visibility_decisions_total",
			Help: "Score visibility decisions",
		},
		[]string{"visible"},
	)

	// SSEConnectionsActive tracks active SSE connections.
	SSEConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_connections_active",
			Help: "Number of active SSE connections",
		},
	)

	// NATSStreamMessages tracks messages in the turn stream.
	NATSStreamMessages = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nats_stream_messages",
			Help: "Number of messages in NATS stream",
		},
		[]string{"stream"},
	)

	// NATSStreamBytes tracks bytes in the turn stream.
	NATSStreamBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nats_stream_bytes",
			Help: "Bytes in NATS stream",
		},
		[]string{"stream"},
	)

	// SessionsTotal tracks sessions started.
	SessionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_total",
			Help: "Total stylist sessions started",
		},
	)

	// TurnsTotal tracks stored turns.
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turns_total",
			Help: "Total turns stored",
		},
		[]string{"role"},
	)

	// InFlightRejectedTotal counts turns rejected by the per-session guard.
	InFlightRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "turns_inflight_rejected_total",
			Help: "Turns rejected because another turn for the session was in flight",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, route string, status int, duration float64) {
	s := strconv.Itoa(status)
	RequestDuration.WithLabelValues(method, route, s).Observe(duration)
	RequestsTotal.WithLabelValues(method, route, s).Inc()
}

// RecordCompletion records one completion attempt.
func RecordCompletion(provider, model, status string, duration float64, tokensIn, tokensOut int) {
	CompletionDuration.WithLabelValues(provider, status).Observe(duration)
	if model == "" {
		return
	}
	CompletionTokensTotal.WithLabelValues(model, "in").Add(float64(tokensIn))
	CompletionTokensTotal.WithLabelValues(model, "out").Add(float64(tokensOut))
}

// RecordScoreDecision records whether a score was shown.
func RecordScoreDecision(visible bool) {
	ScoreDecisionsTotal.WithLabelValues(strconv.FormatBool(visible)).Inc()
}

// IncrementSSEConnections increments the active SSE connection count.
func IncrementSSEConnections() {
	SSEConnectionsActive.Inc()
}

// DecrementSSEConnections decrements the active SSE connection count.
func DecrementSSEConnections() {
	SSEConnectionsActive.Dec()
}
