package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ":3000", cfg.HTTPAddress())
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.InitialBalance.IsZero())
	assert.Equal(t, "100000", cfg.MaxTransactionAmount.String())
	assert.Equal(t, "inr", cfg.Currency)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 10, cfg.MaxIdleConns)
	assert.Equal(t, 100, cfg.MaxOpenConns)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		errMsg string
	}{
		{
			name:   "missing jwt secret",
			env:    map[string]string{"JWT_SECRET": ""},
			errMsg: "JWT_SECRET is required",
		},
		{
			name:   "postgres without url",
			env:    map[string]string{"JWT_SECRET": "s", "STORE_DRIVER": "postgres", "DATABASE_URL": ""},
			errMsg: "DATABASE_URL is required",
		},
		{
			name:   "unknown driver",
			env:    map[string]string{"JWT_SECRET": "s", "STORE_DRIVER": "mongo"},
			errMsg: "unknown STORE_DRIVER",
		},
		{
			name:   "bad ttl",
			env:    map[string]string{"JWT_SECRET": "s", "JWT_TTL": "week"},
			errMsg: "invalid JWT_TTL",
		},
		{
			name:   "non-numeric pool size",
			env:    map[string]string{"JWT_SECRET": "s", "DB_MAX_OPEN_CONNS": "lots"},
			errMsg: "invalid DB_MAX_OPEN_CONNS",
		},
		{
			name:   "negative idle conns",
			env:    map[string]string{"JWT_SECRET": "s", "DB_MAX_IDLE_CONNS": "-1"},
			errMsg: "invalid DB_MAX_IDLE_CONNS",
		},
		{
			name:   "non-numeric redis db",
			env:    map[string]string{"JWT_SECRET": "s", "REDIS_DB": "one"},
			errMsg: "invalid REDIS_DB",
		},
		{
			name:   "negative initial balance",
			env:    map[string]string{"JWT_SECRET": "s", "INITIAL_BALANCE": "-5"},
			errMsg: "invalid INITIAL_BALANCE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("STORE_DRIVER", "POSTGRES")
	t.Setenv("DATABASE_URL", "postgres://localhost/topup")
	t.Setenv("INITIAL_BALANCE", "1000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, "1000", cfg.InitialBalance.String())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "info", cfg.LogLevel)
}
