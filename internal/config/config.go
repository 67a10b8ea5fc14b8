package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Jobs     JobsConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Env      string
	LogLevel string
}

// JobsConfig holds daemon-mode cadences for the engine jobs.
type JobsConfig struct {
	SessionResetInterval  time.Duration
	AbsenceSweepInterval  time.Duration
	AutoCheckoutInterval  time.Duration
	BreakEnforcerInterval time.Duration
	CleanupInterval       time.Duration
}

func Load() (*Config, error) {
	// .env is optional outside development; real env vars win either way.
	_ = godotenv.Load()

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "shiftwatch"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.App = AppConfig{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.Jobs = JobsConfig{
		SessionResetInterval:  getEnvDuration("JOB_SESSION_RESET_INTERVAL", time.Hour),
		AbsenceSweepInterval:  getEnvDuration("JOB_ABSENCE_SWEEP_INTERVAL", time.Hour),
		AutoCheckoutInterval:  getEnvDuration("JOB_AUTO_CHECKOUT_INTERVAL", 30*time.Minute),
		BreakEnforcerInterval: getEnvDuration("JOB_BREAK_ENFORCER_INTERVAL", 5*time.Minute),
		CleanupInterval:       getEnvDuration("JOB_CLEANUP_INTERVAL", 24*time.Hour),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
