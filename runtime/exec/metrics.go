package exec

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	oliveRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shesmu_olive_runs",
		Help: "Olive runs by completion status.",
	}, []string{"olive", "status"})
	oliveDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shesmu_olive_run_time",
		Help:    "Time to run an olive to completion in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
	}, []string{"olive"})
	oliveRecords = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shesmu_olive_records",
		Help: "Input records read by olives.",
	}, []string{"olive"})
	oliveActions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shesmu_olive_actions",
		Help: "Distinct actions generated by olives.",
	}, []string{"olive"})
	throttled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shesmu_olive_throttled",
		Help: "Scheduled runs skipped because a required service was throttled.",
	})
)

func init() {
	prometheus.MustRegister(oliveRuns, oliveDuration, oliveRecords, oliveActions, throttled)
}
