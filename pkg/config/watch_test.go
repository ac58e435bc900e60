package config

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "identity:\n  allow_anonymous: true\nrate_limit:\n  max_requests: 10\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = NewWatcher(path, nil).Watch(ctx, func(cfg *Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	// Give the watcher a moment to register before touching the file.
	time.Sleep(200 * time.Millisecond)

	content := "identity:\n  allow_anonymous: true\nrate_limit:\n  max_requests: 50\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.RateLimit.MaxRequests != 50 {
			t.Errorf("Expected reloaded max_requests 50, got %d", cfg.RateLimit.MaxRequests)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for reload")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Watcher did not stop after cancellation")
	}
}

func TestWatcher_InvalidUpdateKeepsPrevious(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "identity:\n  allow_anonymous: true\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 1)
	go func() {
		_ = NewWatcher(path, nil).Watch(ctx, func(cfg *Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	time.Sleep(200 * time.Millisecond)

	// A rewrite that fails validation must not invoke the callback.
	if err := os.WriteFile(path, []byte("rate_limit:\n  store: etcd\n"), 0o644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	select {
	case <-reloaded:
		t.Error("Expected no reload for an invalid configuration")
	case <-time.After(time.Second):
	}
}
