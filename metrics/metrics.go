// Package metrics holds the Prometheus collectors shared by the server and batch jobs.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	TeamsScored = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "showdown",
		Subsystem: "scoring",
		Name:      "teams_total",
		Help:      "Teams scored, by caller (api, cli, dataset, live)",
	}, []string{"source"})

	BuildFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "showdown",
		Subsystem: "scoring",
		Name:      "build_failures_total",
		Help:      "Teams that could not be turned into a feature vector, by reason",
	}, []string{"reason"})

	ScoreDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "showdown",
		Subsystem: "scoring",
		Name:      "duration_seconds",
		Help:      "Time taken to resolve and score a single team",
		Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12),
	})

	ReplaysFetched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "showdown",
		Subsystem: "replays",
		Name:      "fetched_total",
		Help:      "Replay fetches by outcome (kept, rejected, error)",
	}, []string{"outcome"})

	LiveRooms = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "showdown",
		Subsystem: "live",
		Name:      "rooms",
		Help:      "Battle rooms currently streamed to browsers",
	})
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			TeamsScored,
			BuildFailures,
			ScoreDuration,
			ReplaysFetched,
			LiveRooms,
		)
	})
}
