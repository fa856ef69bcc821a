package config

import (
	"os"
	"strings"
)

// Config holds all server configuration, sourced from the environment.
type Config struct {
	Port               string
	DBPath             string
	JWTSecret          string
	CORSAllowedOrigins []string
	LogLevel           string
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		DBPath:             getEnvOrDefault("DB_PATH", "db.json"),
		JWTSecret:          getEnvOrDefault("JWT_SECRET", "dev-secret-change-me"),
		CORSAllowedOrigins: splitOrigins(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
	}
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
