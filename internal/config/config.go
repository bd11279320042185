package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultPort      = "8080"
	defaultDSN       = "yogastudio.db"
	defaultJWTSecret = "change-me-jwt-secret"
	defaultJWTTTL    = "24h"
	defaultCurrency  = "usd"
	defaultEmailFrom = "bookings@yogastudio.local"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	// StripeSecretKey empty means the in-memory fake gateway is used.
	StripeSecretKey string
	Currency        string

	// SendgridAPIKey empty means confirmation emails are only logged.
	SendgridAPIKey string
	EmailFrom      string
	EmailFromName  string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:          strings.ToLower(getEnv("APP_ENV", "dev")),
		Port:            getEnv("PORT", defaultPort),
		DatabaseURL:     getEnv("DATABASE_URL", defaultDSN),
		JWTSecret:       strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret)),
		StripeSecretKey: strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY")),
		Currency:        strings.ToLower(getEnv("CURRENCY", defaultCurrency)),
		SendgridAPIKey:  strings.TrimSpace(os.Getenv("SENDGRID_API_KEY")),
		EmailFrom:       getEnv("EMAIL_FROM", defaultEmailFrom),
		EmailFromName:   getEnv("EMAIL_FROM_NAME", "Yoga Studio"),
	}

	ttl, err := time.ParseDuration(getEnv("JWT_TTL", defaultJWTTTL))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.JWTTTL = ttl

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if len(cfg.Currency) != 3 {
		return fmt.Errorf("CURRENCY must be a 3-letter ISO code, got %q", cfg.Currency)
	}
	if isProdLike(cfg.AppEnv) {
		if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.StripeSecretKey == "" {
			return fmt.Errorf("in prod/release STRIPE_SECRET_KEY must be set")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
