package config

import (
	"os"
	"time"
)

type AppConfig struct {
	Environment  string
	EnforceHTTPS bool

	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	CacheEnabled bool

	JWTSecret string

	// SendGrid settings travel inside the config object; the mailer never
	// reads them ambiently.
	SendGridAPIKey string
	MailFrom       string

	LokiURL      string
	OTLPEndpoint string
	MetricsPort  string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Environment:      "development",
		EnforceHTTPS:     false,
		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"POST /users": {
				Requests: 5,
				Window:   time.Minute,
			},
			"POST /users/login": {
				Requests: 10,
				Window:   time.Minute,
			},
			"/tasks": {
				Requests: 100,
				Window:   time.Minute,
			},
		},
		CacheEnabled:   true,
		JWTSecret:      os.Getenv("JWT_SECRET"),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       getenv("MAIL_FROM", "no-reply@taskapp.local"),
		LokiURL:        os.Getenv("LOKI_URL"),
		OTLPEndpoint:   getenv("OTLP_ENDPOINT", "localhost:4317"),
		MetricsPort:    getenv("METRICS_PORT", "9091"),
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}
