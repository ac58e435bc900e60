package ratelimit

import (
	"context"
	"time"
)

// Store persists per-caller request timestamps for the sliding window.
// Implementations must be safe for concurrent use.
//
// The single Append operation covers the whole admission sequence (prune,
// record, count) so backends can execute it in one round trip.
type Store interface {
	// Append removes timestamps at or before cutoff from the caller's
	// bucket, appends now, and returns the resulting live count. The
	// appended timestamp is retained even when the caller ends up being
	// rejected, so rejected attempts still count toward future windows.
	Append(ctx context.Context, key string, now, cutoff time.Time) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
