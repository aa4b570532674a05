package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// RequireAdmin lets through only callers whose email is on the admin allowlist.
// Must run after AuthMiddleware.
func RequireAdmin(admins AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(ContextEmail)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}

		ok, err := admins.IsAdmin(c.Request.Context(), email)
		if err != nil {
			log.Ctx(c.Request.Context()).Error().Err(err).Msg("Admin check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Admin check failed"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}

		c.Next()
	}
}
