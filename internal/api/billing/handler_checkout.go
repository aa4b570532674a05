package billing

import (
	"errors"
	"net/http"

	billingsvc "billing-sync/internal/billing"
	"billing-sync/internal/domain/catalog"
	"billing-sync/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type checkoutRequest struct {
	PriceOrProductID string `json:"priceOrProductId" binding:"required_without=PriceID"`
	PriceID          string `json:"priceId"`
	UserID           string `json:"userId" binding:"required"`
	UserEmail        string `json:"userEmail" binding:"required"`
}

func (r checkoutRequest) reference() string {
	if r.PriceOrProductID != "" {
		return r.PriceOrProductID
	}
	return r.PriceID
}

func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var body checkoutRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		metrics.SessionsTotal.WithLabelValues("checkout", "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameters"})
		return
	}

	ref, err := catalog.Parse(body.reference())
	if err != nil {
		metrics.SessionsTotal.WithLabelValues("checkout", "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"type":  "invalid_request_error",
			"code":  "invalid_reference",
		})
		return
	}

	session, err := h.checkout.Build(c.Request.Context(), billingsvc.CheckoutRequest{
		Ref:        ref,
		UserID:     body.UserID,
		UserEmail:  body.UserEmail,
		SuccessURL: h.urls.CheckoutSuccess,
		CancelURL:  h.urls.CheckoutCancel,
	})
	if err != nil {
		metrics.SessionsTotal.WithLabelValues("checkout", "failed").Inc()
		log.Ctx(c.Request.Context()).Error().Err(err).
			Str("user_id", body.UserID).
			Stringer("ref", ref).
			Msg("Error creating checkout session")
		status, payload := checkoutError(err)
		c.JSON(status, payload)
		return
	}

	metrics.SessionsTotal.WithLabelValues("checkout", "created").Inc()
	c.JSON(http.StatusOK, gin.H{"id": session.ID, "url": session.URL})
}

func checkoutError(err error) (int, gin.H) {
	var pe *billingsvc.ProviderError
	switch {
	case errors.Is(err, billingsvc.ErrValidation):
		return http.StatusBadRequest, gin.H{"error": "Missing required parameters"}
	case errors.Is(err, catalog.ErrInvalidReference):
		return http.StatusBadRequest, gin.H{"error": err.Error(), "type": "invalid_request_error", "code": "invalid_reference"}
	case errors.Is(err, billingsvc.ErrNoActivePrice):
		return http.StatusInternalServerError, gin.H{"error": err.Error(), "type": "catalog_error", "code": "no_active_price"}
	case errors.As(err, &pe):
		msg := pe.Message
		if msg == "" {
			msg = pe.Error()
		}
		return http.StatusInternalServerError, gin.H{"error": msg, "type": pe.Type, "code": pe.Code}
	default:
		return http.StatusInternalServerError, gin.H{"error": err.Error(), "type": "unknown", "code": "unknown"}
	}
}
