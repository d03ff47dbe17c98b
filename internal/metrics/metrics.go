// Package metrics holds the Prometheus collectors for the tournament server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tournament"

var (
	// RPCRequests counts finished RPCs by procedure and Connect code ("ok" on success).
	RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "RPCs handled, by procedure and result code.",
	}, []string{"procedure", "code"})

	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "RPC latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure"})

	PlayersRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "players_registered_total",
		Help:      "Players registered since start.",
	})

	MatchesReported = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "matches_reported_total",
		Help:      "Match results recorded since start.",
	})

	// RoundPairings is the number of pairings in the last round generated.
	RoundPairings = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "round_pairings",
		Help:      "Pairings produced by the most recent SwissPairings call.",
	})
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
