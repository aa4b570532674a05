package billing

import (
	"errors"
	"net/http"
	"strings"

	billingsvc "billing-sync/internal/billing"
	"billing-sync/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type portalRequest struct {
	UserID string `json:"userId"`
}

func (h *Handler) CreateBillingPortal(c *gin.Context) {
	var body portalRequest
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.UserID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId"})
		return
	}

	portal, err := h.portal.Build(c.Request.Context(), body.UserID, h.urls.PortalReturn)
	switch {
	case errors.Is(err, billingsvc.ErrNotFound):
		metrics.SessionsTotal.WithLabelValues("portal", "not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "No subscription found"})
		return
	case errors.Is(err, billingsvc.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId"})
		return
	case err != nil:
		metrics.SessionsTotal.WithLabelValues("portal", "failed").Inc()
		log.Ctx(c.Request.Context()).Error().Err(err).Str("user_id", body.UserID).Msg("Error creating customer portal session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.SessionsTotal.WithLabelValues("portal", "created").Inc()
	c.JSON(http.StatusOK, gin.H{"url": portal.URL})
}
