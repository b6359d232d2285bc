package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trinv/stockroom/internal/port"
)

const (
	idempotencyKeyTTL   = 24 * time.Hour
	dashboardSummaryKey = "dashboard:summary"
)

// RedisAdapter covers the two cache concerns: idempotency keys for sale
// creation and the short-lived dashboard summary. Authoritative stock state
// lives in MySQL only.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

var _ port.CacheRepository = (*RedisAdapter)(nil)

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (r *RedisAdapter) GetDashboardSummary(ctx context.Context) ([]byte, error) {
	payload, err := r.client.Get(ctx, dashboardSummaryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (r *RedisAdapter) SetDashboardSummary(ctx context.Context, payload []byte, ttl time.Duration) error {
	return r.client.Set(ctx, dashboardSummaryKey, payload, ttl).Err()
}
