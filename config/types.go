package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Account   AccountConfig   `mapstructure:"account"`
	Proxy     string          `mapstructure:"proxy"`
	API       APIConfig       `mapstructure:"api"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Session   SessionConfig   `mapstructure:"session"`
	Retry     RetryConfig     `mapstructure:"retry"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// AccountConfig identifies the TonPlace account. Token, when set, is used as
// is and no login happens.
type AccountConfig struct {
	Phone        string `mapstructure:"phone"`
	Token        string `mapstructure:"token"`
	SaveSession  bool   `mapstructure:"save_session"`
	ReturnErrors bool   `mapstructure:"return_errors"`
}

// APIConfig holds the API endpoints
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	UploadURL string        `mapstructure:"upload_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// AuthConfig controls the Telegram login wait
type AuthConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// Session backends
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// SessionConfig selects where tokens are cached
type SessionConfig struct {
	Backend     string        `mapstructure:"backend"`
	Dir         string        `mapstructure:"dir"`
	RedisURL    string        `mapstructure:"redis_url"`
	RedisPrefix string        `mapstructure:"redis_prefix"`
	RedisTTL    time.Duration `mapstructure:"redis_ttl"`
}

// RetryConfig mirrors retry.Policy
type RetryConfig struct {
	MaxAttempts uint          `mapstructure:"max_attempts"`
	MaxElapsed  time.Duration `mapstructure:"max_elapsed"`
	Delay       time.Duration `mapstructure:"delay"`
}

// RateLimitConfig throttles API calls. Zero requests per minute disables it.
type RateLimitConfig struct {
	RequestsPerMinute float64 `mapstructure:"requests_per_minute"`
	Burst             int     `mapstructure:"burst"`
}

// MetricsConfig contains Pushgateway settings
type MetricsConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	Job            string `mapstructure:"job"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
