package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Limiter enforces a per-caller sliding window request limit.
//
// On every admission check the caller's timestamp sequence is pruned to
// the trailing window, the current timestamp is appended, and the
// resulting length is compared against the limit. The overflowing
// timestamp is appended before the comparison, so a rejected attempt
// still counts toward future window evaluations.
//
// Concurrent checks for the same caller key race on the bucket's
// read-modify-write; enforcement is deliberately approximate. The limiter
// exists for coarse abuse deterrence, not billing-grade quotas.
type Limiter struct {
	// mu protects window and maxRequests, which are hot-reloadable.
	mu          sync.RWMutex
	window      time.Duration
	maxRequests int

	store   Store
	metrics *Metrics
	logger  *slog.Logger
}

// Config contains limiter settings.
type Config struct {
	// Window is the trailing window within which requests are counted.
	Window time.Duration

	// MaxRequests is the number of requests admitted per window.
	MaxRequests int

	// Metrics receives admission-check observations. May be nil.
	Metrics *Metrics

	// Logger receives store failures. Defaults to slog.Default().
	Logger *slog.Logger
}

// NewLimiter creates a limiter backed by the given store.
func NewLimiter(cfg Config, store Store) *Limiter {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Limiter{
		window:      cfg.Window,
		maxRequests: cfg.MaxRequests,
		store:       store,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}
}

// Admit checks whether a request from the caller key is within the limit,
// recording the attempt either way. It never inspects request content.
func (l *Limiter) Admit(ctx context.Context, key string) bool {
	return l.AdmitAt(ctx, key, time.Now())
}

// AdmitAt is Admit with an explicit evaluation instant.
func (l *Limiter) AdmitAt(ctx context.Context, key string, now time.Time) bool {
	l.mu.RLock()
	window := l.window
	maxRequests := l.maxRequests
	l.mu.RUnlock()

	count, err := l.store.Append(ctx, key, now, now.Add(-window))
	if err != nil {
		// Fail open: the limiter is best effort and a store outage must
		// not take the service down with it.
		l.logger.Warn("rate-limit store failure, admitting request",
			"caller_key", key,
			"error", err,
		)
		l.metrics.observe("error")
		return true
	}

	if count > maxRequests {
		l.metrics.observe("rejected")
		return false
	}

	l.metrics.observe("admitted")
	return true
}

// UpdateLimits replaces the window and request limit at runtime. Existing
// bucket contents are kept; the new window applies from the next check.
func (l *Limiter) UpdateLimits(window time.Duration, maxRequests int) {
	if window <= 0 || maxRequests <= 0 {
		return
	}
	l.mu.Lock()
	l.window = window
	l.maxRequests = maxRequests
	l.mu.Unlock()
}

// Close releases the underlying store.
func (l *Limiter) Close() error {
	return l.store.Close()
}
