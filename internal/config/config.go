package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Quota backends for the mentor daily counter
const (
	QuotaBackendMemory   = "memory"
	QuotaBackendRedis    = "redis"
	QuotaBackendPostgres = "postgres"
)

// Config holds all configuration for skillsprint
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Seed      SeedConfig
	Outreach  OutreachConfig
	Mentor    MentorConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Monitor   MonitorConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string
	Port int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// SeedConfig points at the catalog seed directory
type SeedConfig struct {
	Dir string
}

// OutreachConfig holds recruiter outreach rules
type OutreachConfig struct {
	RequireVisibility bool
}

// MentorConfig holds text-suggestion service configuration
type MentorConfig struct {
	APIKey       string
	APIURL       string
	DailyLimit   int
	QuotaBackend string
	Timezone     string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	DSN           string
	MigrationsDir string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// RateLimitConfig holds per-identity API limits
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Enabled reports whether requests are rate limited
func (c RateLimitConfig) Enabled() bool {
	return c.RPS > 0 && c.Burst > 0
}

// MonitorConfig holds risk monitor configuration
type MonitorConfig struct {
	Interval time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Seed: SeedConfig{
			Dir: getEnv("SEED_DIR", "./seed"),
		},
		Outreach: OutreachConfig{
			RequireVisibility: getEnvAsBool("OUTREACH_REQUIRE_VISIBILITY", true),
		},
		Mentor: MentorConfig{
			APIKey:       getEnv("MENTOR_API_KEY", ""),
			APIURL:       getEnv("MENTOR_API_URL", ""),
			DailyLimit:   getEnvAsInt("MENTOR_DAILY_LIMIT", 5),
			QuotaBackend: strings.ToLower(getEnv("MENTOR_QUOTA_BACKEND", QuotaBackendMemory)),
			Timezone:     getEnv("MENTOR_TIMEZONE", ""),
		},
		Database: DatabaseConfig{
			DSN:           getEnv("DATABASE_DSN", ""),
			MigrationsDir: getEnv("DATABASE_MIGRATIONS_DIR", "./migrations"),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvAsFloat("RATE_LIMIT_RPS", 20),
			Burst: getEnvAsInt("RATE_LIMIT_BURST", 40),
		},
		Monitor: MonitorConfig{
			Interval: getEnvAsDuration("MONITOR_INTERVAL", time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Mentor.DailyLimit < 1 {
		return fmt.Errorf("invalid mentor daily limit: %d", c.Mentor.DailyLimit)
	}

	switch c.Mentor.QuotaBackend {
	case QuotaBackendMemory, QuotaBackendRedis:
	case QuotaBackendPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database DSN is required for the postgres quota backend")
		}
	default:
		return fmt.Errorf("unknown mentor quota backend: %q", c.Mentor.QuotaBackend)
	}

	if c.Mentor.Timezone != "" {
		if _, err := time.LoadLocation(c.Mentor.Timezone); err != nil {
			return fmt.Errorf("invalid mentor timezone: %w", err)
		}
	}

	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}

	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("invalid monitor interval: %s", c.Monitor.Interval)
	}

	return nil
}

// Location returns the time zone used for mentor quota days
func (c *MentorConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// SlogLevel maps the configured level name to a slog level
func (c *LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
