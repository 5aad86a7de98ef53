package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTSecret   string
	JWTTTLHours int
	ServerPort  string

	// CacheURL enables the Redis cache when set.
	CacheURL        string
	CacheTTLSeconds int

	StoreDriver string
	CatalogPath string

	LogLevel     string
	LogFormat    string
	AllowOrigins string

	DefaultPassMark        int
	DefaultEnforcePassMark bool
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file, using environment variables")
	}

	cfg := &Config{
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "learning_platform"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		JWTTTLHours: getEnvInt("JWT_TTL_HOURS", 72),
		ServerPort:  getEnv("SERVER_PORT", "8080"),

		CacheURL:        getEnv("CACHE_URL", ""),
		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 300),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		CatalogPath: getEnv("CATALOG_PATH", ""),

		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:    strings.ToLower(getEnv("LOG_FORMAT", "json")),
		AllowOrigins: getEnv("ALLOW_ORIGINS", "*"),

		DefaultPassMark:        getEnvInt("DEFAULT_PASS_MARK", 70),
		DefaultEnforcePassMark: getEnvBool("DEFAULT_ENFORCE_PASS_MARK", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreDriverPostgres, StoreDriverMemory, c.StoreDriver)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if c.DefaultPassMark < 0 || c.DefaultPassMark > 100 {
		return fmt.Errorf("DEFAULT_PASS_MARK must be between 0 and 100, got %d", c.DefaultPassMark)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWTTTLHours <= 0 {
		return fmt.Errorf("JWT_TTL_HOURS must be positive, got %d", c.JWTTTLHours)
	}
	return nil
}

// DSN is the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return b
}
