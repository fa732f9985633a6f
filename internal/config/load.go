package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "SKILLPATH"

// Load configuration from environment variables and optionally a config.yaml
// in the working directory. Environment variables take precedence over values
// from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile behaves like Load but reads the given config file instead of
// searching for config.yaml. An empty path falls back to the search.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only sees keys viper already knows about; secrets have no
	// default so they are bound explicitly.
	for _, key := range []string{
		"auth.jwt_secret",
		"llm.gemini_api_key",
		"llm.base_url",
		"cache.redis_url",
		"cache.database_url",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetDefault("llm.model_name", "gemini-3-flash-preview")

	v.SetDefault("gateway.max_concurrency", 2)
	v.SetDefault("gateway.max_retries", 5)
	v.SetDefault("gateway.backoff_base", 3.0)
	v.SetDefault("gateway.backoff_unit", "1s")
	v.SetDefault("gateway.max_jitter", "2s")
	v.SetDefault("gateway.max_backoff", "0s")
	v.SetDefault("gateway.attempt_timeout", "0s")
	v.SetDefault("gateway.requests_per_minute", 0)
	v.SetDefault("gateway.retryable_status_codes", []int{429, 500, 503})

	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.max_entries", 1024)
	v.SetDefault("cache.key_prefix", "skillpath:")
}
