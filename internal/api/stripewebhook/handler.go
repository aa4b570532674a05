package stripewebhooks

import (
	"context"
	"io"
	"net/http"
	"time"

	"billing-sync/internal/billing"
	stripeinfra "billing-sync/internal/infra/stripe"
	"billing-sync/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 65536

// ProcessedEvents remembers delivered event ids. Optional.
type ProcessedEvents interface {
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, eventID string) error
}

type Handler struct {
	secret string
	router *Router
	events ProcessedEvents
}

func NewHandler(secret string, router *Router, events ProcessedEvents) *Handler {
	return &Handler{secret: secret, router: router, events: events}
}

// StripeWebhook verifies and applies one delivery. Permanent failures are
// acknowledged so Stripe stops retrying; transient ones answer 500.
func (h *Handler) StripeWebhook(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()
	logger := log.Ctx(ctx)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues("unknown", metrics.OutcomeRejected).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := stripeinfra.VerifyEvent(payload, c.GetHeader("Stripe-Signature"), h.secret)
	if err != nil {
		logger.Warn().Err(err).Msg("Stripe signature verification failed")
		metrics.WebhookEventsTotal.WithLabelValues("unknown", metrics.OutcomeRejected).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	eventType := string(event.Type)
	outcome := metrics.OutcomeApplied
	defer func() {
		metrics.WebhookEventsTotal.WithLabelValues(eventType, outcome).Inc()
		metrics.WebhookDuration.WithLabelValues(eventType).Observe(time.Since(start).Seconds())
	}()

	if !h.router.Handles(eventType) {
		outcome = metrics.OutcomeIgnored
		logger.Debug().Str("event_type", eventType).Msg("Ignoring unhandled event")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if h.events != nil {
		seen, err := h.events.IsProcessed(ctx, event.ID)
		if err != nil {
			logger.Warn().Err(err).Str("event_id", event.ID).Msg("Processed-event lookup failed")
		}
		if seen {
			outcome = metrics.OutcomeDuplicate
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
	}

	if err := h.router.Route(ctx, event); err != nil {
		if billing.IsTransient(err) {
			outcome = metrics.OutcomeFailed
			logger.Error().Err(err).Str("event_id", event.ID).Str("event_type", eventType).Msg("Webhook processing failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
			return
		}
		outcome = metrics.OutcomeSkipped
		logger.Warn().Err(err).Str("event_id", event.ID).Str("event_type", eventType).Msg("Webhook event skipped")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if h.events != nil {
		if err := h.events.MarkProcessed(ctx, event.ID); err != nil {
			logger.Warn().Err(err).Str("event_id", event.ID).Msg("Failed to mark event processed")
		}
	}

	logger.Info().Str("event_id", event.ID).Str("event_type", eventType).Msg("Webhook event applied")
	c.JSON(http.StatusOK, gin.H{"received": true})
}
