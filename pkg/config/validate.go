package config

import "fmt"

// Validate checks the configuration for invalid values.
// It is called after defaults and environment overrides are applied.
func Validate(cfg *Config) error {
	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("server.listen_address must not be empty")
	}
	if cfg.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive, got %s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive, got %s", cfg.Server.WriteTimeout)
	}

	if cfg.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive, got %s", cfg.RateLimit.Window)
	}
	if cfg.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("rate_limit.max_requests must be positive, got %d", cfg.RateLimit.MaxRequests)
	}
	switch cfg.RateLimit.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("rate_limit.store must be \"memory\" or \"redis\", got %q", cfg.RateLimit.Store)
	}
	if cfg.RateLimit.Store == "redis" && cfg.Redis.Address == "" {
		return fmt.Errorf("redis.address is required when rate_limit.store is \"redis\"")
	}

	if cfg.Seance.MaxMessageChars <= 0 {
		return fmt.Errorf("seance.max_message_chars must be positive, got %d", cfg.Seance.MaxMessageChars)
	}
	if cfg.Seance.MaxHistoryMessages <= 0 {
		return fmt.Errorf("seance.max_history_messages must be positive, got %d", cfg.Seance.MaxHistoryMessages)
	}
	if cfg.Seance.MaxHistoryMessageChars <= 0 {
		return fmt.Errorf("seance.max_history_message_chars must be positive, got %d", cfg.Seance.MaxHistoryMessageChars)
	}

	if !cfg.Identity.AllowAnonymous && cfg.Identity.SupabaseURL == "" {
		return fmt.Errorf("identity.supabase_url is required unless identity.allow_anonymous is enabled")
	}

	if cfg.OpenAI.Endpoint == "" {
		return fmt.Errorf("openai.endpoint must not be empty")
	}
	if cfg.OpenAI.MaxTokens <= 0 {
		return fmt.Errorf("openai.max_tokens must be positive, got %d", cfg.OpenAI.MaxTokens)
	}

	return nil
}
