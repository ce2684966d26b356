package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"    validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	AI       AIConfig       `mapstructure:"ai"       validate:"required"`
	Task     TaskConfig     `mapstructure:"task"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// RedisConfig contains the connection settings for the Redis instance
// backing rate-limit counters and the generation result cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"required"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// AIConfig contains the settings for the AI generation subsystem:
// provider credentials, the payload encryption key, rate-limit and
// quota defaults, and input bounds.
type AIConfig struct {
	// Provider API keys. At least one must be set for the service to be
	// able to construct a working provider.
	OpenAIAPIKey    string `mapstructure:"openai_api_key"`
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	GeminiAPIKey    string `mapstructure:"gemini_api_key"`

	// EncryptionKey is the base64-encoded 32-byte key used to encrypt
	// usage log payloads at rest. Required when Environment is
	// "production"; in other environments an ephemeral key is generated
	// with a warning when this is empty.
	EncryptionKey string `mapstructure:"encryption_key"`

	// Environment gates ephemeral-key generation and error detail in
	// responses. One of development, staging, production.
	Environment string `mapstructure:"environment" validate:"required,oneof=development staging production"`

	// MaxInputLength is the rune count user prompts are truncated to
	// before they are sent to a provider.
	MaxInputLength int `mapstructure:"max_input_length" validate:"required,gt=0"`

	// RateLimitRequests per RateLimitWindowSeconds per (user, service).
	RateLimitRequests      int `mapstructure:"rate_limit_requests"       validate:"required,gt=0"`
	RateLimitWindowSeconds int `mapstructure:"rate_limit_window_seconds" validate:"required,gt=0"`

	// Monthly quota defaults by role, used when no row exists in the
	// usage_limits table for a role.
	StudentMonthlyLimit    int `mapstructure:"student_monthly_limit"    validate:"required,gt=0"`
	InstructorMonthlyLimit int `mapstructure:"instructor_monthly_limit" validate:"required,gt=0"`
	AdminMonthlyLimit      int `mapstructure:"admin_monthly_limit"      validate:"required,gt=0"`
}

// TaskConfig contains settings for the background task runner that
// processes asynchronous generation requests.
type TaskConfig struct {
	QueueSize           int `mapstructure:"queue_size"             validate:"required,gt=0"`
	WorkerCount         int `mapstructure:"worker_count"           validate:"required,gt=0"`
	StuckTaskAgeMinutes int `mapstructure:"stuck_task_age_minutes" validate:"required,gt=0"`
}

// IsProduction reports whether the service is configured for a
// production deployment.
func (c AIConfig) IsProduction() bool {
	return c.Environment == "production"
}
