package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	StoreDriver     string
	DatabaseURL     string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	InitialBalance       decimal.Decimal
	MaxTransactionAmount decimal.Decimal
	Currency             string

	StripeSecretKey string
	StripeAPIURL    string

	AMQPURL   string
	AMQPQueue string

	CORSOrigins    []string
	UserCacheTTL   time.Duration
	IdempotencyTTL time.Duration
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		return strings.TrimSpace(val)
	}
	return defaultVal
}

// Load reads configuration from the environment and validates it.
// It does not read .env; call LoadEnv first for that.
func Load() (Config, error) {
	cfg := Config{
		Port:            GetEnv("PORT", "3000"),
		Env:             GetEnv("ENV", "development"),
		StoreDriver:     strings.ToLower(GetEnv("STORE_DRIVER", StoreMemory)),
		DatabaseURL:     GetEnv("DATABASE_URL", ""),
		RedisAddr:       GetEnv("REDIS_ADDR", ""),
		RedisPassword:   GetEnv("REDIS_PASSWORD", ""),
		JWTSecret:       GetEnv("JWT_SECRET", ""),
		JWTIssuer:       GetEnv("JWT_ISSUER", "topup-api"),
		Currency:        strings.ToLower(GetEnv("CURRENCY", "INR")),
		StripeSecretKey: GetEnv("STRIPE_SECRET_KEY", ""),
		StripeAPIURL:    GetEnv("STRIPE_API_URL", ""),
		AMQPURL:         GetEnv("AMQP_URL", ""),
		AMQPQueue:       GetEnv("AMQP_QUEUE", "ledger.events"),
		CORSOrigins:     parseCSV(GetEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	defaultLevel := "info"
	if cfg.Env == "development" {
		defaultLevel = "debug"
	}
	cfg.LogLevel = GetEnv("LOG_LEVEL", defaultLevel)

	var err error
	ints := []struct {
		key string
		def string
		min int
		dst *int
	}{
		{"DB_MAX_IDLE_CONNS", "10", 0, &cfg.MaxIdleConns},
		{"DB_MAX_OPEN_CONNS", "100", 1, &cfg.MaxOpenConns},
		{"REDIS_DB", "0", 0, &cfg.RedisDB},
	}
	for _, n := range ints {
		if *n.dst, err = strconv.Atoi(GetEnv(n.key, n.def)); err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", n.key, err)
		}
		if *n.dst < n.min {
			return Config{}, fmt.Errorf("invalid %s: must be at least %d", n.key, n.min)
		}
	}

	durations := []struct {
		key string
		def string
		dst *time.Duration
	}{
		{"DB_CONN_MAX_LIFETIME", "1h", &cfg.ConnMaxLifetime},
		{"DB_CONN_MAX_IDLE_TIME", "30m", &cfg.ConnMaxIdleTime},
		{"JWT_TTL", "168h", &cfg.JWTTTL},
		{"USER_CACHE_TTL", "5m", &cfg.UserCacheTTL},
		{"IDEMPOTENCY_TTL", "24h", &cfg.IdempotencyTTL},
	}
	for _, d := range durations {
		if *d.dst, err = time.ParseDuration(GetEnv(d.key, d.def)); err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		if *d.dst <= 0 {
			return Config{}, fmt.Errorf("invalid %s: must be positive", d.key)
		}
	}

	if cfg.InitialBalance, err = decimal.NewFromString(GetEnv("INITIAL_BALANCE", "0")); err != nil {
		return Config{}, fmt.Errorf("invalid INITIAL_BALANCE: %w", err)
	}
	if cfg.InitialBalance.IsNegative() {
		return Config{}, fmt.Errorf("invalid INITIAL_BALANCE: must not be negative")
	}
	if cfg.MaxTransactionAmount, err = decimal.NewFromString(GetEnv("MAX_TRANSACTION_AMOUNT", "100000")); err != nil {
		return Config{}, fmt.Errorf("invalid MAX_TRANSACTION_AMOUNT: %w", err)
	}
	if !cfg.MaxTransactionAmount.IsPositive() {
		return Config{}, fmt.Errorf("invalid MAX_TRANSACTION_AMOUNT: must be positive")
	}

	switch cfg.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=%s", StorePostgres)
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return ":" + c.Port
}

// IsProduction reports whether the loaded config targets production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func parseCSV(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
