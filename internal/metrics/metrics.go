package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Quote Source Metrics
var (
	// QuoteFetchDuration tracks upstream quote fetch latency in seconds
	QuoteFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quote_fetch_duration_seconds",
			Help:    "Quote fetch duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// QuoteFetchFailuresTotal tracks fetch failures by reason
	QuoteFetchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_fetch_failures_total",
			Help: "Total quote fetch failures by reason",
		},
		[]string{"reason"},
	)

	// QuoteBreakerStateChanges tracks circuit breaker state transitions
	QuoteBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_breaker_state_changes_total",
			Help: "Quote source circuit breaker state transitions by new state",
		},
		[]string{"state"},
	)
)

// Feed Metrics
var (
	// FeedTicksTotal tracks broadcast ticks by outcome (fresh/fallback/sentinel)
	FeedTicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_ticks_total",
			Help: "Total broadcast ticks by outcome",
		},
		[]string{"outcome"},
	)

	// FeedSendFailuresTotal tracks frame send failures that ended a feed loop
	FeedSendFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_send_failures_total",
			Help: "Total frame send failures that terminated a feed loop",
		},
	)
)

// WebSocket Metrics
var (
	// WebSocketConnectedClients tracks currently connected dashboard clients
	WebSocketConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connected_clients",
			Help: "Number of currently connected WebSocket clients",
		},
	)

	// WebSocketRejectedConnectionsTotal tracks connections rejected at the cap
	WebSocketRejectedConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_rejected_connections_total",
			Help: "Total WebSocket connections rejected because the connection cap was reached",
		},
	)

	// WebSocketFrameSendDuration tracks frame write latency in seconds
	WebSocketFrameSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "websocket_frame_send_duration_seconds",
			Help:    "WebSocket frame write duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)
)
