package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Inventory InventoryConfig `mapstructure:"inventory"`
	POS       POSConfig       `mapstructure:"pos"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Profiling ProfilingConfig `mapstructure:"profiling"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, or file path
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

// DatabaseConfig holds database connection settings.
// Lifetimes are in minutes.
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"`
}

// RedisConfig holds Redis connection settings.
// When disabled the idempotency store stays in process.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig holds the settings used to verify access tokens
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type HTTPConfig struct {
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
	MaxBodySize    int64         `mapstructure:"max_body_size"`
	TrustedProxies []string      `mapstructure:"trusted_proxies"`
	SwaggerEnabled bool          `mapstructure:"swagger_enabled"` // serves /swagger/*
}

// InventoryConfig holds ledger settings
type InventoryConfig struct {
	DefaultLocation string `mapstructure:"default_location"` // bin used when a request names none
	MaxAuditItems   int    `mapstructure:"max_audit_items"`  // largest count sheet accepted by one audit
}

type POSConfig struct {
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl"`
}

// TelemetryConfig holds OpenTelemetry configuration.
// DBLogFullSQL must stay off in production.
type TelemetryConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	CollectorEndpoint string        `mapstructure:"collector_endpoint"` // OTLP gRPC, e.g. localhost:4317
	SamplingRatio     float64       `mapstructure:"sampling_ratio"`     // 0.0-1.0
	ServiceName       string        `mapstructure:"service_name"`
	Insecure          bool          `mapstructure:"insecure"`
	LogsEnabled       bool          `mapstructure:"logs_enabled"` // ship zap entries over OTLP
	DBTraceEnabled    bool          `mapstructure:"db_trace_enabled"`
	DBLogFullSQL      bool          `mapstructure:"db_log_full_sql"`
	DBSlowQueryThresh time.Duration `mapstructure:"db_slow_query_threshold"`
}

// ProfilingConfig holds Pyroscope continuous profiling settings.
// ProfileTypes uses pyroscope names such as cpu, alloc_space, inuse_space, goroutines.
type ProfilingConfig struct {
	Enabled              bool     `mapstructure:"enabled"`
	ServerAddress        string   `mapstructure:"server_address"`
	ApplicationName      string   `mapstructure:"application_name"`
	BasicAuthUser        string   `mapstructure:"basic_auth_user"`
	BasicAuthPassword    string   `mapstructure:"basic_auth_password"`
	ProfileTypes         []string `mapstructure:"profile_types"`
	MutexProfileFraction int      `mapstructure:"mutex_profile_fraction"`
	BlockProfileRate     int      `mapstructure:"block_profile_rate"`
}

// defaults lists every key Load knows about. Keys must be registered here for
// ERP_ environment overrides to reach Unmarshal.
var defaults = map[string]any{
	"app.name": "erp-core",
	"app.env":  "development",
	"app.port": "8080",

	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "erp",
	"database.sslmode":            "disable",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,

	"redis.enabled":  false,
	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"jwt.secret": "",
	"jwt.issuer": "erp-core",

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"http.read_timeout":     15 * time.Second,
	"http.write_timeout":    15 * time.Second,
	"http.idle_timeout":     60 * time.Second,
	"http.max_header_bytes": 1 << 20,
	"http.max_body_size":    int64(10 << 20),
	"http.trusted_proxies":  []string{},
	"http.swagger_enabled":  false,

	"inventory.default_location": "DEFAULT",
	"inventory.max_audit_items":  500,

	"pos.idempotency_ttl": 24 * time.Hour,

	"telemetry.enabled":                 false,
	"telemetry.collector_endpoint":      "localhost:4317",
	"telemetry.sampling_ratio":          1.0,
	"telemetry.service_name":            "erp-core",
	"telemetry.insecure":                false,
	"telemetry.logs_enabled":            false,
	"telemetry.db_trace_enabled":        false,
	"telemetry.db_log_full_sql":         false,
	"telemetry.db_slow_query_threshold": 200 * time.Millisecond,

	"profiling.enabled":                false,
	"profiling.server_address":         "http://localhost:4040",
	"profiling.application_name":       "erp-core",
	"profiling.basic_auth_user":        "",
	"profiling.basic_auth_password":    "",
	"profiling.profile_types":          []string{"cpu", "alloc_space", "inuse_space", "goroutines"},
	"profiling.mutex_profile_fraction": 5,
	"profiling.block_profile_rate":     5,
}

// Load reads configuration. Later sources win:
// built-in defaults, config.toml, then ERP_* environment variables
// (a .env file in the working directory is loaded into the environment first).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("ERP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Database.MaxOpenConns <= 0:
		return errors.New("database.max_open_conns must be positive")
	case c.Database.MaxIdleConns < 0:
		return errors.New("database.max_idle_conns cannot be negative")
	case c.Database.MaxIdleConns > c.Database.MaxOpenConns:
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	case c.Inventory.MaxAuditItems <= 0:
		return errors.New("inventory.max_audit_items must be positive")
	case c.Inventory.DefaultLocation == "" || len(c.Inventory.DefaultLocation) > 50:
		return errors.New("inventory.default_location must be 1 to 50 characters")
	case c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1:
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	case c.Profiling.Enabled && strings.TrimSpace(c.Profiling.ServerAddress) == "":
		return errors.New("profiling.server_address is required when profiling is enabled")
	}

	if !c.IsProduction() {
		return nil
	}
	switch {
	case c.JWT.Secret == "":
		return errors.New("jwt.secret is required in production")
	case len(c.JWT.Secret) < 32:
		return errors.New("jwt.secret must be at least 32 characters in production")
	case c.Database.Password == "":
		return errors.New("database.password is required in production")
	case c.Database.SSLMode == "disable":
		return errors.New("database.sslmode cannot be 'disable' in production")
	case c.Telemetry.DBLogFullSQL:
		return errors.New("telemetry.db_log_full_sql must be false in production")
	}
	return nil
}

// IsProduction reports whether the app runs in the production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
