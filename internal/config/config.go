package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the routeboard server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Optimize OptimizeConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

type OptimizeConfig struct {
	// RateLimitPerMin caps optimization API calls per client per minute.
	RateLimitPerMin int
	// StaleAfter is how long a request may sit pending before the sweep
	// marks it failed. SweepInterval is how often the sweep runs.
	StaleAfter    time.Duration
	SweepInterval time.Duration
}

// Load reads configuration from environment variables and returns a validated
// Config. Returns an error with a descriptive message if any required value
// is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("ROUTEBOARD_PORT", 8080),
			Env:  envString("ROUTEBOARD_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Optimize: OptimizeConfig{
			RateLimitPerMin: envInt("RATE_LIMIT_PER_MIN", 60),
			StaleAfter:      envDuration("OPTIMIZE_STALE_AFTER", 30*time.Minute),
			SweepInterval:   envDuration("OPTIMIZE_SWEEP_INTERVAL", 5*time.Minute),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Optimize.StaleAfter <= 0 {
		return fmt.Errorf("OPTIMIZE_STALE_AFTER must be positive, got %s", c.Optimize.StaleAfter)
	}
	if c.Optimize.SweepInterval <= 0 {
		return fmt.Errorf("OPTIMIZE_SWEEP_INTERVAL must be positive, got %s", c.Optimize.SweepInterval)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
