package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	AppPort               string
	AppEnv                string
	AppURL                string
	AppCorsAllowedOrigins []string

	PropertyStoreURL    string
	PropertyStoreToken  string
	CommunityStoreURL   string
	CommunityStoreToken string
	StoreTimeoutSeconds int

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTExp    int

	InboxCacheTTLSeconds int

	SendRateLimit         int
	SendRateWindowSeconds int

	RetentionDays      int
	RetentionSweepCron string
}

func LoadAppConfig() *AppConfig {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, reading from system environment variables")
	}

	return &AppConfig{
		AppPort:               mustGetEnv("APP_PORT"),
		AppEnv:                mustGetEnv("APP_ENV"),
		AppURL:                getEnv("APP_URL", "http://localhost:8080"),
		AppCorsAllowedOrigins: strings.Split(getEnv("APP_CORS_ALLOWED_ORIGINS", "*"), ","),

		PropertyStoreURL:    mustGetEnv("PROPERTY_STORE_URL"),
		PropertyStoreToken:  getEnv("PROPERTY_STORE_TOKEN", ""),
		CommunityStoreURL:   mustGetEnv("COMMUNITY_STORE_URL"),
		CommunityStoreToken: getEnv("COMMUNITY_STORE_TOKEN", ""),
		StoreTimeoutSeconds: getEnvAsInt("STORE_TIMEOUT_SECONDS", 10),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		JWTSecret: mustGetEnv("JWT_SECRET"),
		JWTExp:    mustGetEnvAsInt("JWT_EXP"),

		InboxCacheTTLSeconds: getEnvAsInt("INBOX_CACHE_TTL_SECONDS", 30),

		SendRateLimit:         getEnvAsInt("SEND_RATE_LIMIT", 30),
		SendRateWindowSeconds: getEnvAsInt("SEND_RATE_WINDOW_SECONDS", 60),

		RetentionDays:      getEnvAsInt("RETENTION_DAYS", 30),
		RetentionSweepCron: getEnv("RETENTION_SWEEP_CRON", "0 3 * * *"),
	}
}

func mustGetEnv(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		slog.Error("Environment variable is required but not set", "key", key)
		os.Exit(1)
	}
	return value
}

func mustGetEnvAsInt(key string) int {
	valStr := mustGetEnv(key)
	val, err := strconv.Atoi(valStr)
	if err != nil {
		slog.Error("Environment variable must be an integer", "key", key, "value", valStr)
		os.Exit(1)
	}
	return val
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		slog.Warn("Environment variable must be an integer, using fallback", "key", key, "value", valStr, "fallback", fallback)
		return fallback
	}
	return val
}
