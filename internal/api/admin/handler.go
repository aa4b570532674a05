package admin

import (
	"context"
	"errors"
	"net/http"

	"billing-sync/internal/admins"
	"billing-sync/internal/app/http/middleware"
	domain "billing-sync/internal/domain/admins"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Allowlist interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]domain.AdminUser, error)
	Add(ctx context.Context, email string) (*domain.AdminUser, error)
	Remove(ctx context.Context, email string) error
}

type Handler struct {
	admins Allowlist
}

func NewHandler(admins Allowlist) *Handler {
	return &Handler{admins: admins}
}

// Status tells the caller whether their own email is on the allowlist.
func (h *Handler) Status(c *gin.Context) {
	email := c.GetString(middleware.ContextEmail)
	if email == "" {
		c.JSON(http.StatusOK, gin.H{"is_admin": false})
		return
	}

	ok, err := h.admins.IsAdmin(c.Request.Context(), email)
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("Error checking admin status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check admin status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_admin": ok})
}

func (h *Handler) ListAdmins(c *gin.Context) {
	list, err := h.admins.List(c.Request.Context())
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("Error listing admins")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load admins"})
		return
	}
	if list == nil {
		list = []domain.AdminUser{}
	}
	c.JSON(http.StatusOK, list)
}

type addAdminRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) AddAdmin(c *gin.Context) {
	var body addAdminRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
		return
	}

	u, err := h.admins.Add(c.Request.Context(), body.Email)
	if errors.Is(err, admins.ErrInvalidEmail) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
		return
	}
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Str("email", body.Email).Msg("Error adding admin")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add admin"})
		return
	}

	log.Ctx(c.Request.Context()).Info().Str("email", u.Email).Str("by", c.GetString(middleware.ContextEmail)).Msg("Admin added")
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) RemoveAdmin(c *gin.Context) {
	email := c.Param("email")
	if domain.NormalizeEmail(email) == domain.NormalizeEmail(c.GetString(middleware.ContextEmail)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot remove yourself"})
		return
	}

	err := h.admins.Remove(c.Request.Context(), email)
	switch {
	case errors.Is(err, admins.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
		return
	case err != nil:
		log.Ctx(c.Request.Context()).Error().Err(err).Str("email", email).Msg("Error removing admin")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove admin"})
		return
	}

	log.Ctx(c.Request.Context()).Info().Str("email", email).Str("by", c.GetString(middleware.ContextEmail)).Msg("Admin removed")
	c.Status(http.StatusNoContent)
}
