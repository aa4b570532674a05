package routes

import (
	"net/http"
	"time"

	adminapi "billing-sync/internal/api/admin"
	billingapi "billing-sync/internal/api/billing"
	stripewebhooks "billing-sync/internal/api/stripewebhook"
	"billing-sync/internal/app/http/middleware"
	"billing-sync/internal/logging"
	"billing-sync/internal/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Billing    *billingapi.Handler
	Webhook    *stripewebhooks.Handler
	Admin      *adminapi.Handler
	Admins     middleware.AdminChecker
	JWTSecret  string
	CORSOrigin string
}

func NewEngine(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{d.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Client-Info", "Apikey"},
		ExposeHeaders:    []string{"Content-Length", logging.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Raw body: the signature covers the exact bytes.
	r.POST("/webhook", d.Webhook.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())
	public.POST("/checkout", d.Billing.CreateCheckoutSession)
	public.POST("/portal", d.Billing.CreateBillingPortal)

	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(d.JWTSecret))
	auth.GET("/subscription-status", d.Billing.GetSubscriptionStatus)
	auth.GET("/features/:name", d.Billing.GetFeature)
	auth.GET("/admin/status", d.Admin.Status)

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(d.JWTSecret), middleware.RequireAdmin(d.Admins))
	admin.GET("/users", d.Admin.ListAdmins)
	admin.POST("/users", middleware.SanitizeAndCleanInputMiddleware(), d.Admin.AddAdmin)
	admin.DELETE("/users/:email", d.Admin.RemoveAdmin)
}
