package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file at the specified path and
// applies environment variable overrides.
//
// The loading sequence is:
//  1. Parse YAML from file (a missing file is not an error; some
//     deployments are env-only)
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate the final configuration
//
// Environment variables follow the naming convention COMMUNE_SECTION_FIELD
// (e.g. COMMUNE_SERVER_LISTEN_ADDRESS). The credentials additionally honor
// the conventional names OPENAI_API_KEY, SUPABASE_URL and SUPABASE_ANON_KEY.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Env-only deployment.
		case err != nil:
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
			}
		}
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables always take precedence over
// file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("COMMUNE_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("COMMUNE_LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("COMMUNE_LOG_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}

	if val := os.Getenv("COMMUNE_RATE_LIMIT_WINDOW"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.RateLimit.Window = d
		}
	}
	if val := os.Getenv("COMMUNE_RATE_LIMIT_MAX_REQUESTS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.RateLimit.MaxRequests = n
		}
	}
	if val := os.Getenv("COMMUNE_RATE_LIMIT_STORE"); val != "" {
		cfg.RateLimit.Store = val
	}
	if val := os.Getenv("COMMUNE_REDIS_ADDRESS"); val != "" {
		cfg.Redis.Address = val
	}
	if val := os.Getenv("COMMUNE_REDIS_PASSWORD"); val != "" {
		cfg.Redis.Password = val
	}

	if val := os.Getenv("COMMUNE_ALLOW_ANONYMOUS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Identity.AllowAnonymous = b
		}
	}
	if val := os.Getenv("SUPABASE_URL"); val != "" {
		cfg.Identity.SupabaseURL = val
	}
	if val := os.Getenv("SUPABASE_ANON_KEY"); val != "" {
		cfg.Identity.SupabaseAnonKey = val
	}

	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		cfg.OpenAI.APIKey = val
	}
	if val := os.Getenv("COMMUNE_OPENAI_ENDPOINT"); val != "" {
		cfg.OpenAI.Endpoint = val
	}
	if val := os.Getenv("COMMUNE_OPENAI_MODEL"); val != "" {
		cfg.OpenAI.Model = val
	}
}
