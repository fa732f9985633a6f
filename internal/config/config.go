package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Auth    AuthConfig    `mapstructure:"auth"`
	LLM     LLMConfig     `mapstructure:"llm" validate:"required"`
	Gateway GatewayConfig `mapstructure:"gateway" validate:"required"`
	Cache   CacheConfig   `mapstructure:"cache" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// AuthConfig contains authentication settings for the HTTP API.
// When Enabled is false every /api route is public.
type AuthConfig struct {
	Enabled              bool   `mapstructure:"enabled"`
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required_if=Enabled true,omitempty,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name" validate:"required"`
	// BaseURL overrides the Gemini endpoint. Empty means the SDK default.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

// GatewayConfig tunes the AI request gateway: admission control,
// retry policy and optional client-side throttling.
type GatewayConfig struct {
	MaxConcurrency int `mapstructure:"max_concurrency" validate:"gte=1"`
	MaxRetries     int `mapstructure:"max_retries" validate:"gte=1"`

	// Wait before retry i is BackoffBase^(i+1) * BackoffUnit plus a random
	// jitter in [0, MaxJitter). MaxBackoff caps the wait when non-zero.
	BackoffBase float64       `mapstructure:"backoff_base" validate:"gte=1"`
	BackoffUnit time.Duration `mapstructure:"backoff_unit" validate:"gt=0"`
	MaxJitter   time.Duration `mapstructure:"max_jitter" validate:"gte=0"`
	MaxBackoff  time.Duration `mapstructure:"max_backoff" validate:"gte=0"`

	// AttemptTimeout bounds a single attempt. Zero disables it.
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout" validate:"gte=0"`

	// RequestsPerMinute throttles outbound calls. Zero disables it.
	RequestsPerMinute int `mapstructure:"requests_per_minute" validate:"gte=0"`

	RetryableStatusCodes []int `mapstructure:"retryable_status_codes" validate:"required,min=1,dive,gte=100,lte=599"`
}

// CacheConfig selects and configures the response cache backend.
type CacheConfig struct {
	Driver      string `mapstructure:"driver" validate:"required,oneof=memory redis postgres sqlite"`
	MaxEntries  int    `mapstructure:"max_entries" validate:"gt=0"`
	KeyPrefix   string `mapstructure:"key_prefix"`
	RedisURL    string `mapstructure:"redis_url" validate:"required_if=Driver redis"`
	DatabaseURL string `mapstructure:"database_url" validate:"required_if=Driver postgres,required_if=Driver sqlite"`
}
