package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`
	DBURL   string `env:"DB_URL,required,notEmpty"`

	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`

	StripeSecretKey     string `env:"STRIPE_SECRET_KEY,required,notEmpty"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET,required,notEmpty"`

	AppURL     string   `env:"APP_URL" envDefault:"http://localhost:5173"`
	CORSOrigin string   `env:"CORS_ORIGIN" envDefault:"http://localhost:5173"`
	AdminEmail []string `env:"ADMIN_EMAILS" envSeparator:","`

	RedisURL string `env:"REDIS_URL"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found. Using system environment variables.")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.AppURL = strings.TrimRight(cfg.AppURL, "/")
	return &cfg, nil
}

func (c *Config) CheckoutSuccessURL() string {
	return c.AppURL + "/?success=true&session_id={CHECKOUT_SESSION_ID}"
}

func (c *Config) CheckoutCancelURL() string {
	return c.AppURL + "/?canceled=true"
}

func (c *Config) PortalReturnURL() string {
	return c.AppURL + "/dashboard"
}
