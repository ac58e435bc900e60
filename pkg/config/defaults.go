package config

import "time"

// Default values applied to unset configuration fields.
const (
	DefaultListenAddress   = ":8787"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20

	DefaultRateLimitWindow      = time.Minute
	DefaultRateLimitMaxRequests = 30
	DefaultRateLimitStore       = "memory"
	DefaultCleanupSchedule      = "@every 1m"

	DefaultMaxMessageChars        = 400
	DefaultMaxHistoryMessages     = 12
	DefaultMaxHistoryMessageChars = 300

	DefaultOpenAIEndpoint    = "https://api.openai.com/v1/chat/completions"
	DefaultOpenAIModel       = "gpt-4o-mini"
	DefaultOpenAIMaxTokens   = 100
	DefaultOpenAITemperature = 0.9
	DefaultOpenAITimeout     = 30 * time.Second
)

// ApplyDefaults fills in zero-valued fields with default settings.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = DefaultRateLimitWindow
	}
	if cfg.RateLimit.MaxRequests == 0 {
		cfg.RateLimit.MaxRequests = DefaultRateLimitMaxRequests
	}
	if cfg.RateLimit.Store == "" {
		cfg.RateLimit.Store = DefaultRateLimitStore
	}
	if cfg.RateLimit.CleanupSchedule == "" {
		cfg.RateLimit.CleanupSchedule = DefaultCleanupSchedule
	}

	if cfg.Seance.MaxMessageChars == 0 {
		cfg.Seance.MaxMessageChars = DefaultMaxMessageChars
	}
	if cfg.Seance.MaxHistoryMessages == 0 {
		cfg.Seance.MaxHistoryMessages = DefaultMaxHistoryMessages
	}
	if cfg.Seance.MaxHistoryMessageChars == 0 {
		cfg.Seance.MaxHistoryMessageChars = DefaultMaxHistoryMessageChars
	}

	if cfg.OpenAI.Endpoint == "" {
		cfg.OpenAI.Endpoint = DefaultOpenAIEndpoint
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = DefaultOpenAIModel
	}
	if cfg.OpenAI.MaxTokens == 0 {
		cfg.OpenAI.MaxTokens = DefaultOpenAIMaxTokens
	}
	if cfg.OpenAI.Temperature == 0 {
		cfg.OpenAI.Temperature = DefaultOpenAITemperature
	}
	if cfg.OpenAI.Timeout == 0 {
		cfg.OpenAI.Timeout = DefaultOpenAITimeout
	}
}
