package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"spectral-hq/commune/pkg/config"
	"spectral-hq/commune/pkg/identity"
	"spectral-hq/commune/pkg/limits/ratelimit"
	"spectral-hq/commune/pkg/providers/openai"
	"spectral-hq/commune/pkg/seance"
	"spectral-hq/commune/pkg/server"
	"spectral-hq/commune/pkg/telemetry/logging"
)

var runFlags struct {
	listenAddress string
	logLevel      string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the commune server",
	Long: `Start the commune server with the specified configuration.

The server exposes the chat endpoint on "/", liveness on "/health" and
Prometheus metrics on "/metrics".

Examples:
  # Start with default config
  commune run

  # Start with custom config
  commune run --config /etc/commune/config.yaml

  # Override listen address
  commune run --listen 0.0.0.0:8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Logging.Level = runFlags.logLevel
	}

	logger, err := logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
	})
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	slog.SetDefault(logger)

	store, err := buildStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build rate-limit store: %w", err)
	}

	limiter := ratelimit.NewLimiter(ratelimit.Config{
		Window:      cfg.RateLimit.Window,
		MaxRequests: cfg.RateLimit.MaxRequests,
		Metrics:     ratelimit.NewMetrics(prometheus.DefaultRegisterer),
		Logger:      logger,
	}, store)
	defer limiter.Close()

	var verifier identity.TokenVerifier
	if cfg.Identity.SupabaseURL != "" {
		v, err := identity.NewGoTrueVerifier(cfg.Identity.SupabaseURL, cfg.Identity.SupabaseAnonKey)
		if err != nil {
			return fmt.Errorf("failed to create identity verifier: %w", err)
		}
		verifier = v
	}
	resolver := identity.NewResolver(verifier, logger)

	generator := openai.NewClient(openai.Config{
		APIKey:      cfg.OpenAI.APIKey,
		Endpoint:    cfg.OpenAI.Endpoint,
		Model:       cfg.OpenAI.Model,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: cfg.OpenAI.Temperature,
		Timeout:     cfg.OpenAI.Timeout,
		Logger:      logger,
	})

	handler := seance.NewHandler(seance.HandlerConfig{
		Limits: seance.Limits{
			MaxMessageChars:        cfg.Seance.MaxMessageChars,
			MaxHistoryMessages:     cfg.Seance.MaxHistoryMessages,
			MaxHistoryMessageChars: cfg.Seance.MaxHistoryMessageChars,
		},
		RequireAuth:      !cfg.Identity.AllowAnonymous,
		APIKeyConfigured: cfg.OpenAI.APIKey != "",
		Resolver:         resolver,
		Limiter:          limiter,
		Generator:        generator,
		Logger:           logger,
	})

	if cfg.OpenAI.APIKey == "" {
		logger.Warn("OPENAI_API_KEY is missing, all chat requests will fail as misconfigured")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Hot-reload the rate-limit knobs on config file changes.
	watcher := config.NewWatcher(cfgFile, logger)
	go func() {
		if err := watcher.Watch(ctx, func(updated *config.Config) {
			limiter.UpdateLimits(updated.RateLimit.Window, updated.RateLimit.MaxRequests)
		}); err != nil {
			logger.Warn("configuration watcher stopped", "error", err)
		}
	}()

	srv := server.NewServer(cfg.Server, handler, logger)
	return srv.Start(ctx)
}

// buildStore constructs the configured rate-limit store backend.
func buildStore(cfg *config.Config, logger *slog.Logger) (ratelimit.Store, error) {
	switch cfg.RateLimit.Store {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		logger.Info("using redis rate-limit store", "address", cfg.Redis.Address)
		return ratelimit.NewRedisStore(client, 5*cfg.RateLimit.Window), nil
	default:
		return ratelimit.NewMemoryStore(ratelimit.MemoryStoreConfig{
			CleanupSchedule: cfg.RateLimit.CleanupSchedule,
			Retention:       5 * cfg.RateLimit.Window,
			Logger:          logger,
		})
	}
}
