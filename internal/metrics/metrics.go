package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SyncCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_service_sync_cycles_total",
		Help: "Total number of sync cycles by pipeline and outcome",
	}, []string{"pipeline", "outcome"})

	SyncSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rate_service_sync_skipped_total",
		Help: "Sync cycles skipped because the fetched reading was unchanged",
	})

	FeedFetchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rate_service_feed_fetch_seconds",
		Help:    "Latency of upstream rate feed fetches",
		Buckets: prometheus.DefBuckets,
	})

	UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_service_upstream_errors_total",
		Help: "Total number of upstream feed errors by type",
	}, []string{"type"})
)
