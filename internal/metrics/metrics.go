// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Feed connection lifecycle and frame rates
//   - Broadcast delivery and per-session drop counts
//   - REST proxy request rates, latencies, and cache effectiveness
//   - Frame archiver batch sizes and failures
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orbrelay_active_sessions",
		Help: "Currently registered downstream sessions",
	})
	SessionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orbrelay_sessions_total",
		Help: "Downstream sessions accepted since start",
	})

	FeedConnectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orbrelay_feed_connects_total",
		Help: "Successful feed connection attempts",
	})
	FeedDisconnectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orbrelay_feed_disconnects_total",
		Help: "Feed connection losses (close, error, or stale ping)",
	})
	FeedFramesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orbrelay_feed_frames_total",
		Help: "Frames received from the feed",
	})
	ForwardDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orbrelay_forward_dropped_total",
		Help: "Outbound frames dropped because the feed link was not ready",
	})

	BroadcastDeliveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orbrelay_broadcast_delivered_total",
		Help: "Frame deliveries to downstream sessions",
	})
	BroadcastDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orbrelay_broadcast_dropped_total",
		Help: "Frame deliveries skipped (session not writable or queue full)",
	})

	ProxyRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orbrelay_proxy_requests_total",
		Help: "REST proxy requests by endpoint",
	}, []string{"endpoint"})
	ProxyErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orbrelay_proxy_errors_total",
		Help: "REST proxy upstream failures by endpoint",
	}, []string{"endpoint"})
	ProxyDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "orbrelay_proxy_request_duration_seconds",
		Help:    "REST proxy request latency",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})

	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orbrelay_cache_hits_total",
		Help: "REST proxy cache hits",
	})
	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orbrelay_cache_misses_total",
		Help: "REST proxy cache misses",
	})

	ArchivedFramesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orbrelay_archived_frames_total",
		Help: "Frames written to the archive database",
	})
	ArchiveDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orbrelay_archive_dropped_total",
		Help: "Frames dropped because the archive buffer was full",
	})
	ArchiveErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orbrelay_archive_errors_total",
		Help: "Archive batch insert failures",
	})
)
