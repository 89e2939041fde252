// Package config builds runtime configuration from environment variables so
// main stays lean. Every setting has a development default; production
// deployments override via env.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full server configuration.
type Config struct {
	Server       Server
	Postgres     Postgres
	Redis        Redis
	Kafka        Kafka
	Underwriting Underwriting
	RateLimit    RateLimit
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
}

// Postgres configures the database connection. Empty URL means the server
// runs on in-memory stores (development mode).
type Postgres struct {
	URL string
}

// Redis configures the attempt-tracking store. Empty URL disables
// distributed rate limiting and falls back to in-memory counters.
type Redis struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka configures the audit event publisher. Empty brokers disable it.
type Kafka struct {
	Brokers    []string
	AuditTopic string
}

// Underwriting holds the tunable thresholds of the risk scorer.
type Underwriting struct {
	// AutoApprovalCeiling is the maximum coverage amount eligible for
	// auto-approval regardless of risk level.
	AutoApprovalCeiling float64
}

// RateLimit throttles submission attempts per user.
type RateLimit struct {
	SubmitMaxAttempts int
	SubmitWindow      time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:          envOr("COVERA_ADDR", ":8080"),
			JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		},
		Postgres: Postgres{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: Kafka{
			Brokers:    splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			AuditTopic: envOr("KAFKA_AUDIT_TOPIC", "covera.audit"),
		},
		Underwriting: Underwriting{
			AutoApprovalCeiling: envFloatOr("AUTO_APPROVAL_CEILING", 250_000),
		},
		RateLimit: RateLimit{
			SubmitMaxAttempts: envIntOr("SUBMIT_MAX_ATTEMPTS", 5),
			SubmitWindow:      envDurationOr("SUBMIT_WINDOW", time.Hour),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(csv string) []string {
	if csv == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
