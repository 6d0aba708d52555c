package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string

	DatabaseURL    string
	DBMaxOpenConns int
	DBMaxIdleConns int

	RedisURL string

	JWTSecret       string
	JWTAccessExpiry time.Duration

	CORSOrigins string

	NotifyWebhookURL string
	ResendAPIKey     string
	FromEmail        string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DBMaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: getDurationEnv("JWT_ACCESS_EXPIRY", 15*time.Minute),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),

		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		ResendAPIKey:     getEnv("RESEND_API_KEY", ""),
		FromEmail:        getEnv("FROM_EMAIL", "noreply@example.com"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
