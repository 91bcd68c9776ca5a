package config_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/voucher-ledger/internal/pkg/config"
	"github.com/ammerola/voucher-ledger/test/helpers"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := config.Load(helpers.TestLogger())
	require.NoError(t, err)

	assert.Equal(t, "voucher-ledger", cfg.App.Name)
	assert.Equal(t, config.BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "Sangkot Halomoan", cfg.Business.Reporter)
	assert.Equal(t, 3, cfg.Asynq.Queues["default"])
	assert.Equal(t, int64(10<<20), cfg.Import.MaxUploadBytes())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RATE_LIMIT_DURATION", "30s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ASYNQ_CONCURRENCY", "not-a-number")

	cfg, err := config.Load(helpers.TestLogger())
	require.NoError(t, err)

	assert.Equal(t, config.BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
	assert.Equal(t, "cache:6379", cfg.Asynq.RedisAddr)
	assert.Equal(t, "0.0.0.0:9090", cfg.GetServerAddress())
	assert.Equal(t, 30*time.Second, cfg.Security.RateLimitDuration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, 4, cfg.Asynq.Concurrency, "unparsable values fall back to the default")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *config.Config) {}},
		{name: "unknown_backend", mutate: func(c *config.Config) { c.Store.Backend = "sqlite" }, wantErr: "unknown store backend"},
		{name: "missing_port", mutate: func(c *config.Config) { c.Server.Port = "" }, wantErr: "Server.Port"},
		{
			name: "postgres_pool_bounds",
			mutate: func(c *config.Config) {
				c.Store.Backend = config.BackendPostgres
				c.Database.MinConnections = 5
				c.Database.MaxConnections = 1
			},
			wantErr: "max_connections",
		},
		{
			name:    "production_rejects_memory_backend",
			mutate:  func(c *config.Config) { c.App.Environment = "production" },
			wantErr: "memory store backend",
		},
		{
			name: "production_rejects_wildcard_origin",
			mutate: func(c *config.Config) {
				c.App.Environment = "production"
				c.Store.Backend = config.BackendRedis
				c.Security.SecureHeaders = true
			},
			wantErr: "wildcard origin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := helpers.LoadTestConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

type stubSecrets struct {
	values map[string]string
	err    error
}

func (s stubSecrets) GetSecrets(ctx context.Context, keys []string) (map[string]string, error) {
	return s.values, s.err
}

func TestApplySecrets(t *testing.T) {
	cfg := helpers.LoadTestConfig()
	cfg.AWS.AccessKeyID = "keep-me"

	err := config.ApplySecrets(context.Background(), cfg, stubSecrets{values: map[string]string{
		config.SecretDatabasePassword: "db-secret",
		config.SecretRedisPassword:    "redis-secret",
	}})
	require.NoError(t, err)

	assert.Equal(t, "db-secret", cfg.Database.Password)
	assert.Equal(t, "redis-secret", cfg.Redis.Password)
	assert.Equal(t, "redis-secret", cfg.Asynq.RedisPassword)
	assert.Equal(t, "keep-me", cfg.AWS.AccessKeyID)

	err = config.ApplySecrets(context.Background(), cfg, stubSecrets{err: errors.New("boom")})
	assert.ErrorContains(t, err, "failed to resolve secrets")
}

func TestNewSecretsManager_UnknownProvider(t *testing.T) {
	cfg := helpers.LoadTestConfig()
	cfg.App.SecretsProvider = "vault"

	_, err := config.NewSecretsManager(context.Background(), cfg, helpers.TestLogger())
	assert.ErrorContains(t, err, `unknown secrets provider "vault"`)
}

func TestEnvSecretsManager(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")

	t.Setenv("REDIS_PASSWORD", "")

	sm, err := config.NewSecretsManager(context.Background(), helpers.LoadTestConfig(), helpers.TestLogger())
	require.NoError(t, err)

	got, err := sm.GetSecrets(context.Background(), []string{"DB_PASSWORD", "REDIS_PASSWORD"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"DB_PASSWORD": "from-env"}, got)
}
