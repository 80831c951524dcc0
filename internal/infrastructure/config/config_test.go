package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return LoadWith(context.Background(), envconfig.MapLookuper(env))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, DefaultJWTSecret, cfg.JWT.Secret)
	assert.Equal(t, "HS256", cfg.JWT.Algorithm)
	assert.Equal(t, time.Hour, cfg.JWT.LoginTTL)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "local.db", cfg.Store.SQLitePath)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 5, cfg.Throttle.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Throttle.Window)
	assert.Equal(t, "ADMIN", cfg.Roles.Admin)
	assert.Equal(t, "admin", cfg.Root.Username)
	assert.Equal(t, "admin@admin.com", cfg.Root.Email)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(t, map[string]string{
		"JWT_SECRET":    "s3cret",
		"JWT_ALGORITHM": "HS512",
		"JWT_LOGIN_TTL": "30m",
		"STORE_DRIVER":  "MONGO",
		"REDIS_ADDR":    "localhost:6379",
		"ROLE_EMPLOYEE": "SERVICEMAN",
	})
	require.NoError(t, err)

	assert.Equal(t, "HS512", cfg.JWT.Algorithm)
	assert.Equal(t, 30*time.Minute, cfg.JWT.LoginTTL)
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "SERVICEMAN", cfg.Roles.Employee)
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"default secret in production": {"ENV": "production"},
		"non-hmac algorithm":           {"JWT_ALGORITHM": "RS256"},
		"zero ttl":                     {"JWT_LOGIN_TTL": "0s"},
		"unknown driver":               {"STORE_DRIVER": "postgres"},
		"mysql without dsn":            {"STORE_DRIVER": "mysql"},
		"bad throttle":                 {"REDIS_ADDR": "localhost:6379", "LOGIN_MAX_ATTEMPTS": "0"},
		"malformed duration":           {"JWT_LOGIN_TTL": "soon"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := load(t, env)
			assert.Error(t, err)
		})
	}
}

func TestLoad_ProductionWithRealSecret(t *testing.T) {
	cfg, err := load(t, map[string]string{"ENV": "production", "JWT_SECRET": "rotated"})
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
