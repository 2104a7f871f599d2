package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	Environment    string

	// Identity provider admin API
	IdentityBaseURL    string
	IdentityServiceKey string

	// Auth token verification
	AuthJWTSecret string

	// Document store
	DatabaseURL string

	// Rate limiting (public endpoints)
	RedisURL         string
	RateLimitPerMin  int
	RateLimitEnabled bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		AllowedOrigins:     parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Environment:        getEnv("ENVIRONMENT", "production"),
		IdentityBaseURL:    strings.TrimRight(getEnv("IDENTITY_BASE_URL", ""), "/"),
		IdentityServiceKey: getEnv("IDENTITY_SERVICE_KEY", ""),
		AuthJWTSecret:      getEnv("AUTH_JWT_SECRET", ""),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		RateLimitPerMin:    getIntEnv("RATE_LIMIT_PER_MIN", 60),
		RateLimitEnabled:   getBoolEnv("RATE_LIMIT_ENABLED", true),
	}

	if cfg.IdentityBaseURL == "" {
		return nil, fmt.Errorf("IDENTITY_BASE_URL is required")
	}
	if cfg.AuthJWTSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required")
	}

	return cfg, nil
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// parseOrigins parses comma-separated origins into a slice
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
