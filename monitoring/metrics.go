package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	indexerRequests = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "indexer_request_duration_seconds",
			Help:    "Latency of calls against the chain indexer",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	cacheReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_cache_reads_total",
			Help: "Read-through cache lookups by TTL class and outcome",
		},
		[]string{"class", "outcome"},
	)

	trackerPolls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_polls_total",
			Help: "Confirmation poll ticks issued per transaction kind",
		},
		[]string{"kind"},
	)

	trackerOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_outcomes_total",
			Help: "Terminal confirmation outcomes per transaction kind",
		},
		[]string{"kind", "status"},
	)

	checkInDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkin_decisions_total",
			Help: "Check-in validator decisions",
		},
		[]string{"decision"},
	)
)

func ObserveIndexerRequest(operation string, duration time.Duration, ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	indexerRequests.WithLabelValues(operation, status).Observe(duration.Seconds())
}

func TrackCacheRead(class string, hit bool) {
	outcome := "hit"
	if !hit {
		outcome = "miss"
	}
	cacheReads.WithLabelValues(class, outcome).Inc()
}

func TrackPoll(kind string) {
	trackerPolls.WithLabelValues(kind).Inc()
}

func TrackOutcome(kind, status string) {
	trackerOutcomes.WithLabelValues(kind, status).Inc()
}

func TrackCheckInDecision(decision string) {
	checkInDecisions.WithLabelValues(decision).Inc()
}
