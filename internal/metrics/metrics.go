package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// WebhookEventsTotal counts webhook deliveries by event type and outcome.
	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "billing",
		Subsystem: "webhook",
		Name:      "events_total",
		Help:      "Stripe webhook deliveries by event type and outcome.",
	}, []string{"event_type", "outcome"})

	WebhookDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "billing",
		Subsystem: "webhook",
		Name:      "duration_seconds",
		Help:      "Stripe webhook processing duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"event_type"})

	// SessionsTotal counts checkout and portal session requests by outcome.
	SessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "billing",
		Subsystem: "sessions",
		Name:      "created_total",
		Help:      "Checkout and portal session requests by kind and outcome.",
	}, []string{"kind", "outcome"})
)

// Webhook outcomes.
const (
	OutcomeApplied   = "applied"
	OutcomeSkipped   = "skipped"
	OutcomeIgnored   = "ignored"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"
)

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
