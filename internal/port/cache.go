package port

import (
	"context"
	"time"
)

type CacheRepository interface {
	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)

	// GetDashboardSummary returns the cached summary payload, or nil when absent.
	GetDashboardSummary(ctx context.Context) ([]byte, error)

	// SetDashboardSummary stores the summary payload with the given TTL.
	SetDashboardSummary(ctx context.Context, payload []byte, ttl time.Duration) error
}
