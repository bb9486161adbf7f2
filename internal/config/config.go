package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port                     string
	DatabaseURL              string
	SendBuffer               int
	RateLimitPerMinute       int
	RateLimitBurst           int
	TenantRateLimitPerMinute int
	TenantRateLimitBurst     int
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		Port:                     port,
		DatabaseURL:              os.Getenv("DB_DSN"),
		SendBuffer:               readInt("REALTIME_SEND_BUFFER", 16),
		RateLimitPerMinute:       readInt("RATE_LIMIT_PER_MIN", 120),
		RateLimitBurst:           readInt("RATE_LIMIT_BURST", 30),
		TenantRateLimitPerMinute: readInt("TENANT_RATE_LIMIT_PER_MIN", 600),
		TenantRateLimitBurst:     readInt("TENANT_RATE_LIMIT_BURST", 120),
	}
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
