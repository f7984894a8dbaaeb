// Package config loads service configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds service configuration
type Config struct {
	// HTTP server
	Port          string
	MaxUploadSize int64

	// PostgreSQL; empty disables the session/activity endpoints
	DatabaseURL string

	// Pipeline tuning
	SheetSeriesLetter string
	OCRLanguage       string
	SuppressGridLines bool
}

// Load reads configuration from the environment. A missing .env file is
// normal in production and only logged.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}

	return &Config{
		Port:              getEnvOrDefault("PORT", "8000"),
		MaxUploadSize:     getEnvAsInt64OrDefault("MAX_UPLOAD_SIZE", 50<<20), // 50MB
		DatabaseURL:       getEnvOrDefault("DATABASE_URL", ""),
		SheetSeriesLetter: getEnvOrDefault("SHEET_SERIES_LETTER", "A"),
		OCRLanguage:       getEnvOrDefault("OCR_LANGUAGE", "eng"),
		SuppressGridLines: getEnvAsBoolOrDefault("SUPPRESS_GRID_LINES", false),
	}
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt64OrDefault gets environment variable as int64 or returns default
func getEnvAsInt64OrDefault(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsBoolOrDefault gets environment variable as bool or returns default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
