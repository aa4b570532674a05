package main

import (
	"context"
	"time"

	"billing-sync/config"
	"billing-sync/database"
	"billing-sync/internal/admins"
	adminhttp "billing-sync/internal/api/admin"
	billingapi "billing-sync/internal/api/billing"
	stripewebhooks "billing-sync/internal/api/stripewebhook"
	routes "billing-sync/internal/app/http"
	"billing-sync/internal/billing"
	redisinfra "billing-sync/internal/infra/redis"
	stripeinfra "billing-sync/internal/infra/stripe"
	"billing-sync/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Init("info", "console")
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	db, err := database.Open(cfg.DBURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Database unavailable")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	provider := stripeinfra.NewProvider(stripeinfra.NewClient(cfg.StripeSecretKey, nil))
	store := billing.NewGormStore(db)
	customers := billing.NewCustomerResolver(provider)

	allowlist := admins.NewService(db)
	if err := allowlist.Seed(ctx, cfg.AdminEmail); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed admin allowlist")
	}

	var events stripewebhooks.ProcessedEvents
	if cfg.RedisURL != "" {
		client, err := redisinfra.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Redis unavailable")
		}
		defer client.Close()
		events = redisinfra.NewProcessedEvents(client, redisinfra.DefaultTTL)
		log.Info().Msg("Webhook event dedupe enabled")
	}

	r := routes.NewEngine(routes.Deps{
		Billing: billingapi.NewHandler(
			billing.NewCheckoutBuilder(provider, customers),
			billing.NewPortalBuilder(provider, store),
			billing.NewStatusReader(store),
			billingapi.URLs{
				CheckoutSuccess: cfg.CheckoutSuccessURL(),
				CheckoutCancel:  cfg.CheckoutCancelURL(),
				PortalReturn:    cfg.PortalReturnURL(),
			},
		),
		Webhook: stripewebhooks.NewHandler(
			cfg.StripeWebhookSecret,
			stripewebhooks.NewProjectorRouter(billing.NewProjector(provider, store)),
			events,
		),
		Admin:      adminhttp.NewHandler(allowlist),
		Admins:     allowlist,
		JWTSecret:  cfg.JWTSecret,
		CORSOrigin: cfg.CORSOrigin,
	})

	log.Info().Str("port", cfg.Port).Msg("Starting billing service")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
