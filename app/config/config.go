package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	APIPort     string
	MetricsPort string
}

func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		APIPort:     getEnv("API_PORT", "8080"),
		MetricsPort: getEnv("METRICS_PORT", "9090"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
