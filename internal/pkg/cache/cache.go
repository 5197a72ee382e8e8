// Package cache holds the short lived read caches used in front of full
// table scans.
package cache

import (
	"context"
	"time"
)

// DefaultTTL bounds how stale a cached list can get without an explicit
// invalidation.
const DefaultTTL = 5 * time.Minute

// Clock returns the current time. Tests inject a fixed or stepping clock.
type Clock func() time.Time

// Cache holds a single value for at most its TTL. Invalidate drops it
// immediately and bumps the generation.
//
// Readers take Generation before loading from the store and pass it to
// SetIfCurrent, which refuses the value if an invalidation happened in
// between. A slow read can never put back a list a write already dropped.
type Cache[T any] interface {
	Get(ctx context.Context) (T, bool)
	Generation(ctx context.Context) uint64
	SetIfCurrent(ctx context.Context, gen uint64, value T) bool
	Invalidate(ctx context.Context)
}
