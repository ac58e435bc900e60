package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// MemoryStore implements Store using an in-process map of timestamp
// sequences. This is the default backend: buckets are created lazily on
// first request from a caller key, live for the lifetime of the process,
// and reset on restart. Enforcement is best effort and scoped to a single
// instance; use the redis store when multiple instances must coordinate.
type MemoryStore struct {
	// buckets maps caller key to its ordered request timestamps.
	buckets map[string][]time.Time

	// mu protects access to buckets.
	mu sync.Mutex

	// retention is how long an idle bucket survives before the janitor
	// removes it.
	retention time.Duration

	cron   *cron.Cron
	logger *slog.Logger
}

// MemoryStoreConfig configures the memory store.
type MemoryStoreConfig struct {
	// CleanupSchedule is a cron expression for the idle-bucket janitor
	// (e.g. "@every 1m"). Empty disables the janitor; buckets then grow
	// with the number of distinct caller keys seen.
	CleanupSchedule string

	// Retention is how long idle buckets are kept. Buckets whose newest
	// timestamp is older than this are purged. Default: 5 minutes.
	Retention time.Duration

	// Logger receives janitor activity. Defaults to slog.Default().
	Logger *slog.Logger
}

// NewMemoryStore creates a new in-memory store and starts the cleanup
// janitor if a schedule is configured.
func NewMemoryStore(cfg MemoryStoreConfig) (*MemoryStore, error) {
	if cfg.Retention == 0 {
		cfg.Retention = 5 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &MemoryStore{
		buckets:   make(map[string][]time.Time),
		retention: cfg.Retention,
		logger:    cfg.Logger,
	}

	if cfg.CleanupSchedule != "" {
		if _, err := cron.ParseStandard(cfg.CleanupSchedule); err != nil {
			return nil, fmt.Errorf("invalid cleanup schedule %q: %w", cfg.CleanupSchedule, err)
		}
		s.cron = cron.New()
		if _, err := s.cron.AddFunc(cfg.CleanupSchedule, s.purgeIdle); err != nil {
			return nil, fmt.Errorf("failed to schedule bucket cleanup: %w", err)
		}
		s.cron.Start()
	}

	return s, nil
}

// Append implements Store.
func (s *MemoryStore) Append(_ context.Context, key string, now, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.buckets[key]
	pruned := bucket[:0]
	for _, ts := range bucket {
		if ts.After(cutoff) {
			pruned = append(pruned, ts)
		}
	}
	pruned = append(pruned, now)
	s.buckets[key] = pruned

	return len(pruned), nil
}

// Len returns the number of tracked caller buckets.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// Close stops the cleanup janitor.
func (s *MemoryStore) Close() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	return nil
}

// purgeIdle removes buckets whose newest timestamp is older than the
// retention period. Expired-but-active buckets are left alone; Append
// prunes those on the next request.
func (s *MemoryStore) purgeIdle() {
	cutoff := time.Now().Add(-s.retention)

	s.mu.Lock()
	var purged int
	for key, bucket := range s.buckets {
		if len(bucket) == 0 || bucket[len(bucket)-1].Before(cutoff) {
			delete(s.buckets, key)
			purged++
		}
	}
	remaining := len(s.buckets)
	s.mu.Unlock()

	if purged > 0 {
		s.logger.Debug("purged idle rate-limit buckets",
			"purged", purged,
			"remaining", remaining,
		)
	}
}
