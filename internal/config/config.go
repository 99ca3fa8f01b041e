package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Centavo"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"centavo"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}

	Auth struct {
		JWTSecret string        `envconfig:"JWT_SECRET"`
		TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	}

	Stripe struct {
		SecretKey     string `envconfig:"STRIPE_SECRET_KEY"`
		WebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET"`
		ProPriceID    string `envconfig:"STRIPE_PRO_PRICE_ID"`
		SuccessURL    string `envconfig:"STRIPE_SUCCESS_URL" default:"http://localhost:5173/billing/success"`
		CancelURL     string `envconfig:"STRIPE_CANCEL_URL" default:"http://localhost:5173/billing/cancel"`
	}

	// Plans is the per-tier reporting window table. Presets are the day counts
	// selectable in the dashboard; MaxDays bounds how far back any window may
	// reach, including custom ranges.
	Plans struct {
		FreePresets []int         `envconfig:"PLAN_FREE_PRESETS" default:"7,14,30"`
		FreeMaxDays int           `envconfig:"PLAN_FREE_MAX_DAYS" default:"30"`
		ProPresets  []int         `envconfig:"PLAN_PRO_PRESETS" default:"7,14,30,60,90,120"`
		ProMaxDays  int           `envconfig:"PLAN_PRO_MAX_DAYS" default:"120"`
		GracePeriod time.Duration `envconfig:"PLAN_GRACE_PERIOD" default:"72h"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
