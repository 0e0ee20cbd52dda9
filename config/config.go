package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// Redis configuration; empty means the in-process change bus is used
	// instead of cross-session Redis Pub/Sub
	RedisAddr string

	// Metrics configuration
	MetricsPort string

	// Environment is "development", "production" or "test"
	Environment string
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from a .env file (if present) and the
// environment
func load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	config := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		MetricsPort: os.Getenv("METRICS_PORT"),
		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.MetricsPort == "" {
		config.MetricsPort = "9090"
	}
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
