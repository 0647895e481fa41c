package bandit

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	DecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bandit_decisions_total",
			Help: "Count of served decisions by bandit, arm, and policy.",
		},
		[]string{"bandit", "arm", "policy"},
	)

	FeedbackEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bandit_feedback_events_total",
			Help: "Count of accepted feedback events by bandit, arm, and event_type.",
		},
		[]string{"bandit", "arm", "event_type"},
	)
)

func init() {
	prometheus.MustRegister(DecisionsTotal, FeedbackEventsTotal)
}
