package config

// Backend names accepted by DatabaseConfig.Backend.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"required,gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Backend selects the task store implementation.
	Backend string `mapstructure:"backend" validate:"required,oneof=postgres memory"`
	// URL is the PostgreSQL connection string. Ignored by the memory backend.
	URL                    string `mapstructure:"url"                       validate:"required_if=Backend postgres,omitempty,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gt=0"`
}

// AuthConfig contains bearer-token authentication settings.
type AuthConfig struct {
	Enabled              bool   `mapstructure:"enabled"`
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required_if=Enabled true,omitempty,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// RateLimitConfig configures the global token-bucket limiter in front of the API.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gt=0"`
	Burst             int     `mapstructure:"burst"               validate:"gt=0"`
}

// RedisConfig configures the optional Redis connection used for idempotent creates.
// An empty URL disables the feature.
type RedisConfig struct {
	URL                   string `mapstructure:"url"                     validate:"omitempty,url"`
	IdempotencyTTLMinutes int    `mapstructure:"idempotency_ttl_minutes" validate:"gt=0"`
}
