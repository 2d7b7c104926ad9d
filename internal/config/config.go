package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds every runtime knob, populated from the environment.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration
	LogLevel    string

	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Load reads configuration from environment variables, falling back to
// development defaults.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-key"),
		JWTTTL:      parseDuration(getEnv("JWT_EXPIRES_IN", "24h"), 24*time.Hour),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		RateLimitRequests: parseInt(getEnv("RATE_LIMIT_REQUESTS", "20"), 20),
		RateLimitWindow:   parseDuration(getEnv("RATE_LIMIT_WINDOW", "60s"), time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string, defaultValue int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return defaultValue
}

func parseDuration(s string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if i, err := strconv.Atoi(s); err == nil {
		return time.Duration(i) * time.Second
	}
	return defaultValue
}
