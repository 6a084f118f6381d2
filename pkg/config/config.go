package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/siteforge/siteforge/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Redis / KPI cache configuration
	Redis RedisConfig
	Cache CacheConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL         string
	ReplicaURLs string // comma-separated
	MaxConns    int
	MinConns    int
	Timeout     time.Duration
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	URL        string
	Password   string
	DB         int
	MaxRetries int
	PoolSize   int
}

// CacheConfig holds platform KPI cache settings
type CacheConfig struct {
	Enabled bool
	// KPITTL is how long a composed platform KPI snapshot stays fresh
	KPITTL time.Duration
	// WarmSchedule is an optional cron spec for pre-warming the snapshot
	WarmSchedule string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel

	// Metrics
	MetricsEnabled bool

	// OpenTelemetry
	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool // Use insecure gRPC connection
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Database:      loadDatabaseConfig(),
		Redis:         loadRedisConfig(),
		Cache:         loadCacheConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("SITEFORGE_HOST", "0.0.0.0"),
		Port:            getEnv("SITEFORGE_PORT", "8080"),
		ReadTimeout:     getEnvDuration("SITEFORGE_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("SITEFORGE_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("SITEFORGE_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("SITEFORGE_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("SITEFORGE_HEALTH_PORT", "9090"),
	}
}

// loadDatabaseConfig loads PostgreSQL configuration from environment
func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:         getEnv("SITEFORGE_POSTGRES_URL", ""),
		ReplicaURLs: getEnv("SITEFORGE_POSTGRES_REPLICA_URLS", ""),
		MaxConns:    getEnvInt("SITEFORGE_POSTGRES_MAX_CONNS", 25),
		MinConns:    getEnvInt("SITEFORGE_POSTGRES_MIN_CONNS", 5),
		Timeout:     getEnvDuration("SITEFORGE_POSTGRES_TIMEOUT", 10*time.Second),
		MaxLifetime: getEnvDuration("SITEFORGE_POSTGRES_MAX_LIFETIME", 1*time.Hour),
		MaxIdleTime: getEnvDuration("SITEFORGE_POSTGRES_MAX_IDLE_TIME", 10*time.Minute),
	}
}

// loadRedisConfig loads Redis configuration from environment
func loadRedisConfig() RedisConfig {
	return RedisConfig{
		URL:        getEnv("SITEFORGE_REDIS_URL", ""),
		Password:   getEnv("SITEFORGE_REDIS_PASSWORD", ""),
		DB:         getEnvInt("SITEFORGE_REDIS_DB", 0),
		MaxRetries: getEnvInt("SITEFORGE_REDIS_MAX_RETRIES", 3),
		PoolSize:   getEnvInt("SITEFORGE_REDIS_POOL_SIZE", 10),
	}
}

// loadCacheConfig loads KPI cache configuration from environment
func loadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      getEnvBool("SITEFORGE_KPI_CACHE_ENABLED", true),
		KPITTL:       getEnvDuration("SITEFORGE_KPI_CACHE_TTL", 60*time.Second),
		WarmSchedule: getEnv("SITEFORGE_KPI_WARM_SCHEDULE", ""),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:           parseLogLevel(getEnv("SITEFORGE_LOG_LEVEL", "info")),
		MetricsEnabled:     getEnvBool("SITEFORGE_METRICS_ENABLED", true),
		OTelEnabled:        getEnvBool("SITEFORGE_OTEL_ENABLED", false),
		OTelEndpoint:       getEnv("SITEFORGE_OTEL_ENDPOINT", "localhost:4317"),
		OTelServiceName:    getEnv("SITEFORGE_OTEL_SERVICE_NAME", "siteforge-analytics"),
		OTelServiceVersion: getEnv("SITEFORGE_OTEL_SERVICE_VERSION", "1.0.0"),
		OTelInsecure:       getEnvBool("SITEFORGE_OTEL_INSECURE", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("postgres URL is required")
	}

	if c.Cache.Enabled && c.Redis.URL == "" {
		return fmt.Errorf("redis URL is required when the KPI cache is enabled")
	}
	if c.Cache.Enabled && c.Cache.KPITTL <= 0 {
		return fmt.Errorf("KPI cache TTL must be positive")
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
