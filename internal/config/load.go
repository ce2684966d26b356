package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for all environment variables read by Load.
// AIGEN_SERVER_PORT maps to the "server.port" key, and so on.
const envPrefix = "AIGEN"

// Load reads configuration from environment variables and optionally a
// config file, applies defaults, and validates the result. Environment
// variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading or
// validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config file: ./config.yaml. Absence is not an error;
	// environment variables alone are a complete configuration source.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about, so every
	// key must be bound explicitly for env-only operation.
	for _, key := range configKeys() {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers the default value for every setting that has one.
// Settings without defaults (database URL, JWT secret, API keys) must be
// supplied by the environment or a config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetDefault("ai.environment", "development")
	v.SetDefault("ai.max_input_length", 5000)
	v.SetDefault("ai.rate_limit_requests", 10)
	v.SetDefault("ai.rate_limit_window_seconds", 3600)
	v.SetDefault("ai.student_monthly_limit", 50)
	v.SetDefault("ai.instructor_monthly_limit", 200)
	v.SetDefault("ai.admin_monthly_limit", 1000)

	v.SetDefault("task.queue_size", 50)
	v.SetDefault("task.worker_count", 2)
	v.SetDefault("task.stuck_task_age_minutes", 30)
}

// configKeys returns every configuration key so Load can bind each one
// to its environment variable.
func configKeys() []string {
	return []string{
		"server.port",
		"server.log_level",
		"database.url",
		"redis.addr",
		"redis.password",
		"redis.db",
		"auth.jwt_secret",
		"auth.token_lifetime_minutes",
		"ai.openai_api_key",
		"ai.anthropic_api_key",
		"ai.gemini_api_key",
		"ai.encryption_key",
		"ai.environment",
		"ai.max_input_length",
		"ai.rate_limit_requests",
		"ai.rate_limit_window_seconds",
		"ai.student_monthly_limit",
		"ai.instructor_monthly_limit",
		"ai.admin_monthly_limit",
		"task.queue_size",
		"task.worker_count",
		"task.stuck_task_age_minutes",
	}
}
