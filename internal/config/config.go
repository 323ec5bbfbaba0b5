package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port string
	Env  string // "development", "production"

	// Database
	DatabaseURL string

	// Auth
	JWTSecret string

	// CORS
	AllowedOrigins []string

	// Offer expiry sweep
	ExpirySweepEnabled  bool
	ExpirySweepSchedule string        // Cron expression (e.g., "*/15 * * * *")
	ExpirySweepTimeout  time.Duration // Timeout for a full sweep cycle

	// Acceptance persistence
	AcceptPersistTimeout  time.Duration // Per-attempt timeout when committing an acceptance
	AcceptPersistAttempts int           // Retry attempts before reporting failure
}

func Load() *Config {
	env := getEnv("ENV", "development")

	return &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  env,

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/loanbridge?sslmode=disable"),

		// Auth
		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-production"),

		// CORS
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),

		// Offer expiry sweep
		ExpirySweepEnabled:  getBoolEnv("EXPIRY_SWEEP_ENABLED", true),
		ExpirySweepSchedule: getEnv("EXPIRY_SWEEP_SCHEDULE", "*/15 * * * *"), // Default: every 15 minutes
		ExpirySweepTimeout:  getDurationEnv("EXPIRY_SWEEP_TIMEOUT", 2*time.Minute),

		// Acceptance persistence
		AcceptPersistTimeout:  getDurationEnv("ACCEPT_PERSIST_TIMEOUT", 5*time.Second),
		AcceptPersistAttempts: getIntEnv("ACCEPT_PERSIST_ATTEMPTS", 3),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
