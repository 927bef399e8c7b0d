package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedEnv = []string{
	"ERP_APP_NAME",
	"ERP_APP_ENV",
	"ERP_APP_PORT",
	"ERP_DATABASE_HOST",
	"ERP_DATABASE_PORT",
	"ERP_DATABASE_PASSWORD",
	"ERP_DATABASE_SSLMODE",
	"ERP_DATABASE_MAX_OPEN_CONNS",
	"ERP_DATABASE_MAX_IDLE_CONNS",
	"ERP_JWT_SECRET",
	"ERP_REDIS_ENABLED",
	"ERP_INVENTORY_DEFAULT_LOCATION",
	"ERP_INVENTORY_MAX_AUDIT_ITEMS",
	"ERP_POS_IDEMPOTENCY_TTL",
	"ERP_TELEMETRY_SAMPLING_RATIO",
	"ERP_TELEMETRY_DB_LOG_FULL_SQL",
	"ERP_TELEMETRY_LOGS_ENABLED",
	"ERP_HTTP_SWAGGER_ENABLED",
	"ERP_PROFILING_ENABLED",
	"ERP_PROFILING_SERVER_ADDRESS",
	"ERP_PROFILING_PROFILE_TYPES",
}

// clearEnv blanks every variable Load reads; viper treats empty values as unset
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedEnv {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "erp-core", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, "DEFAULT", cfg.Inventory.DefaultLocation)
		assert.Equal(t, 500, cfg.Inventory.MaxAuditItems)
		assert.Equal(t, 24*time.Hour, cfg.POS.IdempotencyTTL)
		assert.Equal(t, 200*time.Millisecond, cfg.Telemetry.DBSlowQueryThresh)
		assert.False(t, cfg.IsProduction())
		assert.False(t, cfg.HTTP.SwaggerEnabled)
		assert.False(t, cfg.Telemetry.LogsEnabled)
		assert.False(t, cfg.Profiling.Enabled)
		assert.Equal(t, []string{"cpu", "alloc_space", "inuse_space", "goroutines"}, cfg.Profiling.ProfileTypes)
	})

	t.Run("loads values from environment variables with ERP prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_APP_NAME", "test-app")
		t.Setenv("ERP_APP_PORT", "9000")
		t.Setenv("ERP_DATABASE_HOST", "testdb.local")
		t.Setenv("ERP_DATABASE_PORT", "5433")
		t.Setenv("ERP_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("ERP_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("ERP_REDIS_ENABLED", "true")
		t.Setenv("ERP_INVENTORY_DEFAULT_LOCATION", "A-01")
		t.Setenv("ERP_INVENTORY_MAX_AUDIT_ITEMS", "50")
		t.Setenv("ERP_POS_IDEMPOTENCY_TTL", "1h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, "A-01", cfg.Inventory.DefaultLocation)
		assert.Equal(t, 50, cfg.Inventory.MaxAuditItems)
		assert.Equal(t, time.Hour, cfg.POS.IdempotencyTTL)
	})

	t.Run("rejects idle conns above open conns", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_DATABASE_MAX_OPEN_CONNS", "5")
		t.Setenv("ERP_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects negative audit size", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_INVENTORY_MAX_AUDIT_ITEMS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_audit_items")
	})

	t.Run("reads config.toml and lets env override it", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		toml := "[database]\nhost = \"file-db\"\nmax_idle_conns = 2\n\n[pos]\nidempotency_ttl = \"30m\"\n\n[http]\ntrusted_proxies = [\"10.0.0.1\"]\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o600))
		t.Chdir(dir)
		t.Setenv("ERP_DATABASE_HOST", "env-db")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "env-db", cfg.Database.Host)
		assert.Equal(t, 2, cfg.Database.MaxIdleConns)
		assert.Equal(t, 30*time.Minute, cfg.POS.IdempotencyTTL)
		assert.Equal(t, []string{"10.0.0.1"}, cfg.HTTP.TrustedProxies)
	})

	t.Run("reads profiling and swagger switches", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_HTTP_SWAGGER_ENABLED", "true")
		t.Setenv("ERP_TELEMETRY_LOGS_ENABLED", "true")
		t.Setenv("ERP_PROFILING_ENABLED", "true")
		t.Setenv("ERP_PROFILING_PROFILE_TYPES", "cpu,goroutines")

		cfg, err := Load()
		require.NoError(t, err)

		assert.True(t, cfg.HTTP.SwaggerEnabled)
		assert.True(t, cfg.Telemetry.LogsEnabled)
		assert.True(t, cfg.Profiling.Enabled)
		assert.Equal(t, []string{"cpu", "goroutines"}, cfg.Profiling.ProfileTypes)
	})

	t.Run("rejects profiling without a server", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_PROFILING_ENABLED", "true")
		t.Setenv("ERP_PROFILING_SERVER_ADDRESS", " ")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "profiling.server_address")
	})

	t.Run("rejects sampling ratio out of range", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_APP_ENV", "production")
		t.Setenv("ERP_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("ERP_DATABASE_PASSWORD", "secure-password")
		t.Setenv("ERP_DATABASE_SSLMODE", "require")
	}

	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"requires jwt.secret", map[string]string{"ERP_JWT_SECRET": ""}, "jwt.secret is required in production"},
		{"requires long jwt.secret", map[string]string{"ERP_JWT_SECRET": "short-secret"}, "at least 32 characters"},
		{"requires database.password", map[string]string{"ERP_DATABASE_PASSWORD": ""}, "database.password is required"},
		{"requires SSL", map[string]string{"ERP_DATABASE_SSLMODE": "disable"}, "sslmode cannot be 'disable'"},
		{"forbids full SQL logging", map[string]string{"ERP_TELEMETRY_DB_LOG_FULL_SQL": "true"}, "db_log_full_sql"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidProductionBase(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("passes with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
