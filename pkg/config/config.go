package config

import "time"

// Config is the root configuration for the commune service.
//
// Configuration is loaded from an optional YAML file and then overridden
// by environment variables. The file is optional because some deployments
// configure everything through the environment.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Identity  IdentityConfig  `yaml:"identity"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Seance    SeanceConfig    `yaml:"seance"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Redis     RedisConfig     `yaml:"redis"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// ListenAddress is the address the HTTP server binds to.
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response writes.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request on
	// a keep-alive connection.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the log output format ("json", "text").
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	AddSource bool `yaml:"add_source"`
}

// IdentityConfig contains settings for resolving caller identity.
type IdentityConfig struct {
	// AllowAnonymous disables mandatory authentication. By default a
	// resolvable user identity is required and requests without a
	// verifiable bearer token are rejected with 401 before any other
	// processing. When true, anonymous callers are admitted and rate
	// limited by network origin instead.
	AllowAnonymous bool `yaml:"allow_anonymous"`

	// SupabaseURL is the base URL of the Supabase project
	// (e.g. https://abcdefgh.supabase.co). The identity endpoint is
	// <SupabaseURL>/auth/v1/user.
	SupabaseURL string `yaml:"supabase_url"`

	// SupabaseAnonKey is the project API key sent alongside bearer tokens.
	SupabaseAnonKey string `yaml:"supabase_anon_key"`
}

// RateLimitConfig contains sliding-window rate limiter settings.
type RateLimitConfig struct {
	// Window is the trailing window within which requests are counted.
	Window time.Duration `yaml:"window"`

	// MaxRequests is the number of requests admitted per window per caller.
	MaxRequests int `yaml:"max_requests"`

	// Store selects the bucket store backend ("memory" or "redis").
	// Memory is per process instance and best effort; redis coordinates
	// across instances at the cost of a network hop per check.
	Store string `yaml:"store"`

	// CleanupSchedule is a cron expression for purging idle buckets from
	// the memory store. Empty disables the janitor.
	CleanupSchedule string `yaml:"cleanup_schedule"`
}

// SeanceConfig contains bounds applied to incoming séance chat payloads.
type SeanceConfig struct {
	// MaxMessageChars is the maximum message length in Unicode code points.
	MaxMessageChars int `yaml:"max_message_chars"`

	// MaxHistoryMessages is the maximum number of history entries accepted.
	MaxHistoryMessages int `yaml:"max_history_messages"`

	// MaxHistoryMessageChars is the truncation length for history content.
	MaxHistoryMessageChars int `yaml:"max_history_message_chars"`
}

// OpenAIConfig contains settings for the generation service call.
type OpenAIConfig struct {
	// APIKey authenticates against the generation service. Absence is a
	// per-request "Service misconfigured" condition, not a startup error.
	APIKey string `yaml:"api_key"`

	// Endpoint is the chat completions URL.
	Endpoint string `yaml:"endpoint"`

	// Model is the model name sent with each request.
	Model string `yaml:"model"`

	// MaxTokens caps the generated completion length.
	MaxTokens int `yaml:"max_tokens"`

	// Temperature is the sampling temperature.
	Temperature float64 `yaml:"temperature"`

	// Timeout bounds the generation round trip. Zero uses the transport
	// default.
	Timeout time.Duration `yaml:"timeout"`
}

// RedisConfig contains connection settings for the redis rate-limit store.
type RedisConfig struct {
	// Address is the redis host:port.
	Address string `yaml:"address"`

	// Password is the redis password, if any.
	Password string `yaml:"password"`

	// DB is the redis database index.
	DB int `yaml:"db"`
}
