package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TurnsProcessed counts fulfilled turns by intent and outcome.
	TurnsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flightbot_turns_total",
		Help: "Dialogue turns fulfilled, by intent and outcome.",
	}, []string{"intent", "outcome"})

	// NLURequests counts calls made to the NLU provider.
	NLURequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flightbot_nlu_requests_total",
		Help: "Requests sent to the NLU provider, by provider and status.",
	}, []string{"provider", "status"})

	// WSConnections tracks open chat WebSocket connections.
	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "flightbot_ws_connections",
		Help: "Open chat WebSocket connections.",
	})
)
