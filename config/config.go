package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/s0up4200/tonplace/auth"
	"github.com/s0up4200/tonplace/httpclient"
	"github.com/s0up4200/tonplace/retry"
	"github.com/s0up4200/tonplace/session"
	"github.com/s0up4200/tonplace/tonplace"
)

// EnvPrefix prefixes environment overrides, e.g. TONPLACE_ACCOUNT_PHONE.
const EnvPrefix = "TONPLACE"

// Load loads the configuration from file and environment. With an empty
// configPath the standard locations are searched and a missing file is not
// an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".tonplace"))
		}

		// Check /etc
		v.AddConfigPath("/etc/tonplace/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. Every key gets a default so
// that AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("account.phone", "")
	v.SetDefault("account.token", "")
	v.SetDefault("account.save_session", true)
	v.SetDefault("account.return_errors", false)

	v.SetDefault("proxy", "")

	v.SetDefault("api.base_url", tonplace.DefaultBaseURL)
	v.SetDefault("api.upload_url", tonplace.DefaultUploadURL)
	v.SetDefault("api.timeout", tonplace.DefaultTimeout)

	v.SetDefault("auth.timeout", auth.DefaultTimeout)
	v.SetDefault("auth.poll_interval", auth.DefaultPollInterval)

	v.SetDefault("session.backend", BackendFile)
	v.SetDefault("session.dir", ".")
	v.SetDefault("session.redis_url", "")
	v.SetDefault("session.redis_prefix", session.DefaultRedisPrefix)
	v.SetDefault("session.redis_ttl", 0)

	v.SetDefault("retry.max_attempts", retry.DefaultMaxAttempts)
	v.SetDefault("retry.max_elapsed", retry.DefaultMaxElapsed)
	v.SetDefault("retry.delay", retry.DefaultDelay)

	v.SetDefault("rate_limit.requests_per_minute", 0)
	v.SetDefault("rate_limit.burst", 1)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.pushgateway_url", "")
	v.SetDefault("metrics.job", "tonplace")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if err := httpclient.ValidateProxy(cfg.Proxy); err != nil {
		return fmt.Errorf("proxy: %w", err)
	}

	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if cfg.API.UploadURL == "" {
		return fmt.Errorf("api.upload_url is required")
	}
	if cfg.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}

	if cfg.Auth.Timeout <= 0 {
		return fmt.Errorf("auth.timeout must be positive")
	}
	if cfg.Auth.PollInterval < 0 {
		return fmt.Errorf("auth.poll_interval must not be negative")
	}

	switch cfg.Session.Backend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if cfg.Session.RedisURL == "" {
			return fmt.Errorf("session.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("invalid session backend: %s", cfg.Session.Backend)
	}

	if cfg.Retry.MaxElapsed < 0 || cfg.Retry.Delay < 0 {
		return fmt.Errorf("retry durations must not be negative")
	}

	if cfg.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must not be negative")
	}
	if cfg.RateLimit.RequestsPerMinute > 0 && cfg.RateLimit.Burst < 1 {
		return fmt.Errorf("rate_limit.burst must be at least 1")
	}

	if cfg.Metrics.Enabled && cfg.Metrics.PushgatewayURL == "" {
		return fmt.Errorf("metrics.pushgateway_url is required when metrics are enabled")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// RetryPolicy converts the retry section into a policy.
func (c *Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.Retry.MaxAttempts,
		MaxElapsed:  c.Retry.MaxElapsed,
		Delay:       c.Retry.Delay,
	}
}
