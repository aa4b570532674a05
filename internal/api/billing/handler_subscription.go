package billing

import (
	"net/http"

	"billing-sync/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func (h *Handler) GetSubscriptionStatus(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	status, err := h.status.Status(c.Request.Context(), userID)
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Str("user_id", userID).Msg("Error getting subscription status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get subscription status"})
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *Handler) GetFeature(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	feature := c.Param("name")

	active, err := h.status.FeatureActive(c.Request.Context(), userID, feature)
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Str("user_id", userID).Str("feature", feature).Msg("Error reading feature flag")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read feature"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"feature": feature, "is_active": active})
}
