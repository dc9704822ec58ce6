package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	ServerPort  string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENV" envDefault:"development"`

	// Storage backend: "redis", "sql" or "memory"
	Storage     string `env:"STORAGE" envDefault:"redis"`
	Namespace   string `env:"KEY_NAMESPACE" envDefault:"rabdash"`
	SeedOnStart bool   `env:"SEED_ON_START" envDefault:"true"`

	// Redis configuration
	RedisAddress  string `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Database configuration
	DBDriver    string `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST" envDefault:"localhost"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	DBUser      string `env:"DB_USER" envDefault:"postgres"`
	DBPassword  string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName      string `env:"DB_NAME" envDefault:"rab_dashboard"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"rab-dashboard.db"`

	// JWT configuration
	JWTSecret string `env:"JWT_SECRET"`

	WorkerCount int    `env:"WORKER_COUNT" envDefault:"2"`
	LogFile     string `env:"LOG_FILE"`

	FrontendAddress string `env:"FRONTEND_ADDRESS" envDefault:"https://production-frontend.com"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// Find .env file
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		// Try to find .env in parent directories
		envPath = filepath.Join("..", ".env")
		if _, err := os.Stat(envPath); os.IsNotExist(err) {
			envPath = filepath.Join("..", "..", ".env")
		}
	}

	// Load .env file if it exists
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			slog.Warn("error loading .env file", "path", envPath, "error", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		secret, err := generateRandomSecret(32)
		if err != nil {
			return nil, err
		}
		cfg.JWTSecret = secret
		slog.Info("generated random JWT secret")
	}

	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	switch c.Storage {
	case "redis", "memory":
	case "sql":
		if c.DBDriver != "postgres" && c.DBDriver != "sqlite" {
			return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
		}
	default:
		return fmt.Errorf("STORAGE must be redis, sql or memory, got %q", c.Storage)
	}

	if c.WorkerCount < 1 {
		return fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount)
	}

	return nil
}

// generateRandomSecret returns length random bytes, hex encoded
func generateRandomSecret(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
