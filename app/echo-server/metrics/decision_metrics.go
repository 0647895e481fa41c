package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the bandit Decide HTTP handler
	DecideLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bandit_decide_latency_seconds",
		Help:    "Latency of bandit decision endpoint",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of decision requests served
	DecideTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bandit_decide_requests_total",
		Help: "Total decision requests served",
	})
)

func Init() {
	prometheus.MustRegister(DecideLatency, DecideTotal)
}
