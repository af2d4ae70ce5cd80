package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	devJWTSecret = "dev-secret"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Dashboard    DashboardConfig
	Import       ImportConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSAllowedOrigins    []string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication and authorization parameters.
type AuthConfig struct {
	JWTSecret               string
	AccessTokenTTLMinutes   int
	PasswordResetTTLMinutes int
	BcryptCost              int
	CookieName              string
	CookieSecure            bool
	AuthzMode               string
	AuthzAllowDisabled      bool
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// DashboardConfig tunes dashboard aggregation caching.
type DashboardConfig struct {
	CacheTTLSeconds int
}

// ImportConfig bounds bulk project imports.
type ImportConfig struct {
	MaxUploadBytes int
	MaxRows        int
}

// Load reads a .env file when present, then the process environment.
// Malformed numeric or boolean values are reported rather than silently
// replaced by defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	env := &envReader{lookup: lookup}

	cfg := &Config{
		App: AppConfig{
			Name:                  env.get("APP_NAME", "sebit-insight-api"),
			Env:                   strings.ToLower(env.get("APP_ENV", EnvDevelopment)),
			Host:                  env.get("APP_HOST", "0.0.0.0"),
			Port:                  env.get("APP_PORT", "8080"),
			Version:               env.get("APP_VERSION", "dev"),
			RequestTimeoutSeconds: env.getInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			CORSAllowedOrigins:    env.getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Postgres: PostgresConfig{
			DSN:            env.get("POSTGRES_DSN", ""),
			MaxConns:       env.getInt32("POSTGRES_MAX_CONNS", 10),
			MinConns:       env.getInt32("POSTGRES_MIN_CONNS", 2),
			RunMigrations:  env.getBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: env.getInt32("POSTGRES_CONN_MAX_IDLE_SECONDS", 30),
			ConnMaxLifeSec: env.getInt32("POSTGRES_CONN_MAX_LIFE_SECONDS", 300),
		},
		Redis: RedisConfig{
			Addr:     env.get("REDIS_ADDR", "127.0.0.1:6379"),
			Password: env.get("REDIS_PASSWORD", ""),
			DB:       env.getInt("REDIS_DB", 0),
		},
		Logger: LoggerConfig{
			Level: env.get("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:               env.get("AUTH_JWT_SECRET", devJWTSecret),
			AccessTokenTTLMinutes:   env.getInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 480),
			PasswordResetTTLMinutes: env.getInt("AUTH_PASSWORD_RESET_TTL_MINUTES", 30),
			BcryptCost:              env.getInt("AUTH_BCRYPT_COST", 12),
			CookieName:              env.get("AUTH_COOKIE_NAME", "sebit_session"),
			CookieSecure:            env.getBool("AUTH_COOKIE_SECURE", false),
			AuthzMode:               strings.ToLower(env.get("AUTHZ_MODE", "enforce")),
			AuthzAllowDisabled:      env.get("AUTHZ_UNSAFE_ALLOW_DISABLED", "") == "1",
		},
		Notification: NotificationConfig{
			EmailFrom:  env.get("NOTIFY_EMAIL_FROM", "noreply@sebit.co.kr"),
			WebhookURL: env.get("NOTIFY_WEBHOOK_URL", ""),
		},
		Dashboard: DashboardConfig{
			CacheTTLSeconds: env.getInt("DASHBOARD_CACHE_TTL_SECONDS", 300),
		},
		Import: ImportConfig{
			MaxUploadBytes: env.getInt("IMPORT_MAX_UPLOAD_BYTES", 10<<20),
			MaxRows:        env.getInt("IMPORT_MAX_ROWS", 1000),
		},
	}

	if err := errors.Join(append(env.errs, cfg.Validate())...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field rules. Production refuses the development
// JWT secret and insecure cookies.
func (c *Config) Validate() error {
	var errs []error
	if c.Postgres.MinConns > c.Postgres.MaxConns {
		errs = append(errs, fmt.Errorf("POSTGRES_MIN_CONNS (%d) exceeds POSTGRES_MAX_CONNS (%d)", c.Postgres.MinConns, c.Postgres.MaxConns))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("AUTH_BCRYPT_COST must be between 4 and 31, got %d", c.Auth.BcryptCost))
	}
	if c.Auth.AccessTokenTTLMinutes <= 0 {
		errs = append(errs, errors.New("AUTH_ACCESS_TOKEN_TTL_MINUTES must be positive"))
	}
	if c.Import.MaxRows < 0 || c.Import.MaxUploadBytes < 0 {
		errs = append(errs, errors.New("import limits must not be negative"))
	}
	if c.IsProduction() {
		if c.Auth.JWTSecret == devJWTSecret || len(c.Auth.JWTSecret) < 32 {
			errs = append(errs, errors.New("AUTH_JWT_SECRET must be set to at least 32 characters in production"))
		}
		if !c.Auth.CookieSecure {
			errs = append(errs, errors.New("AUTH_COOKIE_SECURE must be true in production"))
		}
	}
	return errors.Join(errs...)
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// CacheTTL returns the dashboard cache lifetime; zero disables caching.
func (d DashboardConfig) CacheTTL() time.Duration {
	if d.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(d.CacheTTLSeconds) * time.Second
}

type envReader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *envReader) raw(key string) (string, bool) {
	val, ok := e.lookup(key)
	val = strings.TrimSpace(val)
	return val, ok && val != ""
}

func (e *envReader) get(key, fallback string) string {
	if val, ok := e.raw(key); ok {
		return val
	}
	return fallback
}

func (e *envReader) getInt(key string, fallback int) int {
	val, ok := e.raw(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s %q: not an integer", key, val))
		return fallback
	}
	return parsed
}

func (e *envReader) getInt32(key string, fallback int32) int32 {
	val, ok := e.raw(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s %q: not a 32-bit integer", key, val))
		return fallback
	}
	return int32(parsed)
}

func (e *envReader) getBool(key string, fallback bool) bool {
	val, ok := e.raw(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s %q: not a boolean", key, val))
		return fallback
	}
	return parsed
}

func (e *envReader) getList(key string, fallback []string) []string {
	val, ok := e.raw(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
