package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// Mutations counts backend-confirmed store mutations by kind and outcome.
	Mutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialsync_mutations_total",
			Help: "Total number of mutating calls issued by the stores",
		},
		[]string{"kind", "outcome"},
	)

	// GuardRejections counts duplicate mutations dropped by a mutation guard.
	GuardRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialsync_guard_rejections_total",
			Help: "Total number of mutations rejected because one was already in flight",
		},
		[]string{"kind"},
	)

	// BadgeRefreshes counts unread-count refreshes by outcome.
	BadgeRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialsync_badge_refreshes_total",
			Help: "Total number of unread notification count refreshes",
		},
		[]string{"outcome"},
	)

	// FeedLoads counts feed loads by scope kind and outcome.
	FeedLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialsync_feed_loads_total",
			Help: "Total number of feed loads",
		},
		[]string{"scope", "outcome"},
	)
)

// ObserveMutation records the outcome of a mutating call.
func ObserveMutation(kind string, err error) {
	if err != nil {
		Mutations.WithLabelValues(kind, OutcomeFailure).Inc()
		return
	}
	Mutations.WithLabelValues(kind, OutcomeSuccess).Inc()
}
