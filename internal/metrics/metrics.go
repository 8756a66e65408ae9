// Package metrics holds the Prometheus instruments used across the server.
// All collectors are registered with the global registry, so mounting
// promhttp.Handler() on /metrics is enough to expose them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, by method, route pattern, and status.",
		}, []string{"method", "route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time spent serving HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"})

	OrdersPlacedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "Orders persisted by the checkout workflow.",
		})

	OrderEmailsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_emails_total",
			Help: "Order notification attempts, by outcome (sent or failed).",
		}, []string{"outcome"})

	MediaUploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_uploads_total",
			Help: "Media host uploads, by outcome (ok or failed).",
		}, []string{"outcome"})

	RateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limited_total",
			Help: "Requests rejected by the per-IP limiter, by route.",
		}, []string{"route"})
)

// Outcome label values.
const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
	OutcomeOK     = "ok"
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		OrdersPlacedTotal,
		OrderEmailsTotal,
		MediaUploadsTotal,
		RateLimitedTotal,
	)
}
