package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/tonplace/retry"
	"github.com/s0up4200/tonplace/tonplace"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func validConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   tonplace.DefaultBaseURL,
			UploadURL: tonplace.DefaultUploadURL,
			Timeout:   time.Second,
		},
		Auth:      AuthConfig{Timeout: time.Minute, PollInterval: time.Second},
		Session:   SessionConfig{Backend: BackendFile, Dir: "."},
		RateLimit: RateLimitConfig{Burst: 1},
		Logging:   LoggingConfig{Level: "info", Format: "console"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "account:\n  phone: \"+15551234567\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "+15551234567", cfg.Account.Phone)
	assert.True(t, cfg.Account.SaveSession)
	assert.False(t, cfg.Account.ReturnErrors)
	assert.Equal(t, tonplace.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, tonplace.DefaultUploadURL, cfg.API.UploadURL)
	assert.Equal(t, 60*time.Second, cfg.Auth.Timeout)
	assert.Equal(t, BackendFile, cfg.Session.Backend)
	assert.Equal(t, retry.Default(), cfg.RetryPolicy())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "tonplace", cfg.Metrics.Job)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
account:
  token: abc
  return_errors: true
proxy: socks5://127.0.0.1:9050
api:
  timeout: 10s
session:
  backend: redis
  redis_url: redis://localhost:6379/0
  redis_ttl: 24h
retry:
  max_attempts: 3
  max_elapsed: 1m
  delay: 2s
rate_limit:
  requests_per_minute: 30
  burst: 2
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.Account.Token)
	assert.True(t, cfg.Account.ReturnErrors)
	assert.Equal(t, "socks5://127.0.0.1:9050", cfg.Proxy)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, BackendRedis, cfg.Session.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Session.RedisTTL)
	assert.Equal(t, retry.Policy{MaxAttempts: 3, MaxElapsed: time.Minute, Delay: 2 * time.Second}, cfg.RetryPolicy())
	assert.Equal(t, 30.0, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 2, cfg.RateLimit.Burst)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "account:\n  phone: \"111\"\n")
	t.Setenv("TONPLACE_ACCOUNT_PHONE", "222")
	t.Setenv("TONPLACE_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("TONPLACE_SESSION_BACKEND", "memory")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "222", cfg.Account.Phone)
	assert.Equal(t, uint(5), cfg.Retry.MaxAttempts)
	assert.Equal(t, BackendMemory, cfg.Session.Backend)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "logging:\n  level: loud\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad proxy scheme", mutate: func(c *Config) { c.Proxy = "ftp://host:21" }, wantErr: "proxy"},
		{name: "no base url", mutate: func(c *Config) { c.API.BaseURL = "" }, wantErr: "api.base_url"},
		{name: "no upload url", mutate: func(c *Config) { c.API.UploadURL = "" }, wantErr: "api.upload_url"},
		{name: "zero auth timeout", mutate: func(c *Config) { c.Auth.Timeout = 0 }, wantErr: "auth.timeout"},
		{name: "unknown backend", mutate: func(c *Config) { c.Session.Backend = "etcd" }, wantErr: "session backend"},
		{name: "redis without url", mutate: func(c *Config) { c.Session.Backend = BackendRedis }, wantErr: "session.redis_url"},
		{name: "redis with url", mutate: func(c *Config) {
			c.Session.Backend = BackendRedis
			c.Session.RedisURL = "redis://localhost:6379"
		}},
		{name: "negative delay", mutate: func(c *Config) { c.Retry.Delay = -time.Second }, wantErr: "retry"},
		{name: "rate limit without burst", mutate: func(c *Config) {
			c.RateLimit.RequestsPerMinute = 10
			c.RateLimit.Burst = 0
		}, wantErr: "rate_limit.burst"},
		{name: "metrics without gateway", mutate: func(c *Config) { c.Metrics.Enabled = true }, wantErr: "pushgateway_url"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "trace" }, wantErr: "logging level"},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "logging format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
