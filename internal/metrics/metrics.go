package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsroom_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newsroom_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ArticlesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsroom_articles_published_total",
			Help: "Articles moved to published",
		},
		[]string{"trigger"}, // manual, scheduler
	)

	ViewsFlushed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsroom_views_flushed_total",
			Help: "Article views written by the view batcher",
		},
	)

	ViewFlushErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsroom_view_flush_errors_total",
			Help: "Failed view batch flushes",
		},
	)

	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsroom_notifications_created_total",
			Help: "Smart notifications inserted",
		},
		[]string{"type"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsroom_cache_lookups_total",
			Help: "Cache lookups by result",
		},
		[]string{"cache", "result"}, // hit, miss, error
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsroom_events_published_total",
			Help: "Events published to NATS",
		},
		[]string{"subject", "status"},
	)

	WebsocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newsroom_ws_connections_active",
			Help: "Open websocket connections",
		},
	)
)
