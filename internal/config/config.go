package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"expensetracker/internal/logger"
)

// Config holds application configuration
type Config struct {
	// Server
	Env             string
	Port            string
	ShutdownTimeout time.Duration

	// Database
	DBDriver   string
	SQLitePath string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Credentials. An empty JWTSecret means a key is generated per process.
	JWTSecret        string
	JWTExpirationDur time.Duration
	BcryptCost       int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		logger.Get().Debug(".env file not found, using process environment")
	}

	// Get values from environment variables with defaults
	config := &Config{
		// Server
		Env:             getEnv("ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		// Database
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		SQLitePath: getEnv("SQLITE_PATH", "expensetracker.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "expensetracker"),
		DBPassword: getEnv("DB_PASSWORD", "expensetracker"),
		DBName:     getEnv("DB_NAME", "expensetracker"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Credentials
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTExpirationDur: getDuration("JWT_EXPIRES_IN", time.Hour),
		BcryptCost:       getInt("BCRYPT_COST", bcrypt.DefaultCost),
	}

	if config.BcryptCost < bcrypt.MinCost || config.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d",
			bcrypt.MinCost, bcrypt.MaxCost, config.BcryptCost)
	}

	return config, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logger.Get().Warnf("invalid %s value '%s', falling back to %s", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		logger.Get().Warnf("invalid %s value '%s', falling back to %d", key, raw, defaultValue)
		return defaultValue
	}
	return n
}
