package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "commune_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// FriendshipsFormed counts accepted friend requests.
	FriendshipsFormed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "commune_friendships_formed_total",
		Help: "Total number of friend requests accepted",
	})

	// LikeToggles counts like toggles by target type and resulting state.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commune_like_toggles_total",
		Help: "Total number of like toggles by target and resulting state",
	}, []string{"target", "state"})

	// GroupJoins counts group membership transitions by outcome.
	GroupJoins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commune_group_membership_transitions_total",
		Help: "Total group membership transitions by outcome",
	}, []string{"outcome"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
