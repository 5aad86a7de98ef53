package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable LoadConfig reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
		"JWT_SECRET", "JWT_TTL_HOURS", "SERVER_PORT",
		"CACHE_URL", "CACHE_TTL_SECONDS",
		"STORE_DRIVER", "CATALOG_PATH",
		"LOG_LEVEL", "LOG_FORMAT", "ALLOW_ORIGINS",
		"DEFAULT_PASS_MARK", "DEFAULT_ENFORCE_PASS_MARK",
	} {
		_ = os.Unsetenv(v)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 70, cfg.DefaultPassMark)
	assert.True(t, cfg.DefaultEnforcePassMark)
	assert.Empty(t, cfg.CacheURL)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL())
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL())
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("DEFAULT_PASS_MARK", "80")
	t.Setenv("DEFAULT_ENFORCE_PASS_MARK", "false")
	t.Setenv("CACHE_URL", "redis://localhost:6379/1")
	t.Setenv("JWT_TTL_HOURS", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 80, cfg.DefaultPassMark)
	assert.False(t, cfg.DefaultEnforcePassMark)
	assert.Equal(t, "redis://localhost:6379/1", cfg.CacheURL)
	assert.Equal(t, 72, cfg.JWTTTLHours)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown driver", "STORE_DRIVER", "sqlite"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"pass mark too high", "DEFAULT_PASS_MARK", "101"},
		{"empty secret", "JWT_SECRET", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "5433", DBUser: "u", DBPassword: "p", DBName: "n", DBSSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=require", cfg.DSN())
}
