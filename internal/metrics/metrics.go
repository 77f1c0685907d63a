package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Request metrics
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// Activity replay metrics
	ActivityEventsReplayed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_activity_events_replayed_total",
			Help: "Tracking events fed into session aggregation",
		},
	)

	ActivityMalformedEvents = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_activity_malformed_events_total",
			Help: "Tracking events skipped as malformed",
		},
	)

	ActivityOrphanCloses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_activity_orphan_closes_total",
			Help: "Disable events dropped with no open session",
		},
	)

	ActivityOrderingViolations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_activity_ordering_violations_total",
			Help: "Events observed out of the required (user, timestamp) order",
		},
	)

	// Outbox metrics
	MessagesDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_messages_dispatched_total",
			Help: "Outbox messages dispatched, by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	// Campaign link metrics
	LinkClicks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_link_clicks_total",
			Help: "Tracked link redirects served, by country",
		},
		[]string{"country"},
	)
)

// Register registers all metrics with the default registry.
func Register() {
	prometheus.MustRegister(
		RequestsTotal,
		ActivityEventsReplayed,
		ActivityMalformedEvents,
		ActivityOrphanCloses,
		ActivityOrderingViolations,
		MessagesDispatched,
		LinkClicks,
	)
}

// Handler returns the Prometheus scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
