package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"catalog-admin/internal/infra/setup"
)

// Config holds everything read from the environment.
type Config struct {
	DBDriver       string
	DatabaseURL    string
	DBMaxOpenConns int
	DBMaxIdleConns int

	ServerPort string
	AppEnv     string
	LogLevel   string

	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	KeyPrefix         string
	ListingCacheTTL   time.Duration
	RateLimitMax      int
	RateLimitWindow   time.Duration
	WorkerConcurrency int

	CORSAllowedOrigins []string

	JWTSecret            string
	OperatorPasswordHash string
	JWTExpiryHours       int
}

// RedisEnabled reports whether the cache, rate limit and task queue are on.
func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }

// AuthEnabled reports whether mutating routes require an operator token.
func (c *Config) AuthEnabled() bool { return c.JWTSecret != "" }

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DBDriver:             getenv("DB_DRIVER"),
		DatabaseURL:          getenv("DATABASE_URL"),
		ServerPort:           getenv("SERVER_PORT"),
		AppEnv:               getenv("APP_ENV"),
		LogLevel:             getenv("LOG_LEVEL"),
		RedisAddr:            getenv("REDIS_ADDR"),
		RedisPassword:        getenv("REDIS_PASSWORD"),
		KeyPrefix:            getenv("REDIS_KEY_PREFIX"),
		JWTSecret:            getenv("JWT_SECRET"),
		OperatorPasswordHash: getenv("OPERATOR_PASSWORD_HASH"),
	}

	ints := []struct {
		key  string
		dst  *int
		def  int
		zero bool
	}{
		{"DB_MAX_OPEN_CONNS", &cfg.DBMaxOpenConns, 50, false},
		{"DB_MAX_IDLE_CONNS", &cfg.DBMaxIdleConns, 10, false},
		{"REDIS_DB", &cfg.RedisDB, 0, true},
		{"RATE_LIMIT_MAX", &cfg.RateLimitMax, 100, false},
		{"WORKER_CONCURRENCY", &cfg.WorkerConcurrency, 4, false},
		{"JWT_EXPIRY_HOURS", &cfg.JWTExpiryHours, 24, false},
	}
	for _, f := range ints {
		v, err := intFromEnv(getenv, f.key, f.def, f.zero)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	ttl, err := intFromEnv(getenv, "LISTING_CACHE_TTL_SECONDS", 60, true)
	if err != nil {
		return nil, err
	}
	cfg.ListingCacheTTL = time.Duration(ttl) * time.Second
	window, err := intFromEnv(getenv, "RATE_LIMIT_WINDOW_SECONDS", 1, false)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitWindow = time.Duration(window) * time.Second

	if cfg.DBDriver == "" {
		cfg.DBDriver = setup.DriverPostgres
	}
	switch cfg.DBDriver {
	case setup.DriverPostgres, setup.DriverMySQL, setup.DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.DatabaseURL == "" {
		if cfg.DBDriver != setup.DriverSQLite {
			return nil, fmt.Errorf("environment variable DATABASE_URL must be set")
		}
		cfg.DatabaseURL = "catalog.db"
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "catalog:"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	origins := getenv("CORS_ALLOWED_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000"
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	return cfg, nil
}

func intFromEnv(getenv func(string) string, key string, def int, allowZero bool) (int, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("environment variable %s must be a non-negative integer, got %q", key, raw)
	}
	if v == 0 && !allowZero {
		return 0, fmt.Errorf("environment variable %s must be positive", key)
	}
	return v, nil
}
