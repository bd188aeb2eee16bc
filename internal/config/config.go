package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Feed     FeedConfig
	Export   ExportConfig
	Logging  LoggingConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// FeedConfig holds market data feed configuration.
// RefreshSchedule is a cron expression; an empty value disables the
// background refresh job. FernetKey encrypts the feed API token at rest.
type FeedConfig struct {
	BaseURL         string
	TimeoutSeconds  int
	RefreshSchedule string
	FernetKey       string
}

// ExportConfig holds CSV export configuration
type ExportConfig struct {
	Dir string
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	timeout, err := strconv.Atoi(getEnv("FEED_TIMEOUT_SECONDS", "10"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid FEED_TIMEOUT_SECONDS: %v", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_tracker.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: strings.Split(
				getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost"),
				",",
			),
		},
		Feed: FeedConfig{
			BaseURL:         getEnv("FEED_BASE_URL", "https://query1.finance.yahoo.com"),
			TimeoutSeconds:  timeout,
			RefreshSchedule: getEnv("PRICE_REFRESH_SCHEDULE", ""),
			FernetKey:       getEnv("FERNET_KEY", ""),
		},
		Export: ExportConfig{
			Dir: getEnv("EXPORT_DIR", "./exports"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnv("LOG_PRETTY", "false") == "true",
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
