package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RequestsTotal        *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec
	AnnouncementsCreated prometheus.Counter
	PhotosUploaded       prometheus.Counter
	PhotosRejected       *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on reg. Tests pass their
// own registry so parallel suites don't collide on the default one.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pawtrail_http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pawtrail_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		AnnouncementsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "pawtrail_announcements_created_total",
			Help: "Total announcements created",
		}),
		PhotosUploaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "pawtrail_photos_uploaded_total",
			Help: "Total photos stored successfully",
		}),
		PhotosRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pawtrail_photos_rejected_total",
			Help: "Total photo uploads rejected, by reason",
		}, []string{"reason"}),
	}
}
