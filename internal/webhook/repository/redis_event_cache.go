package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/brandwire/dispatch/internal/errors"
	"github.com/brandwire/dispatch/internal/webhook/domain"
)

// RedisEventCache shares the latest connection event across replicas.
type RedisEventCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisEventCache creates a Redis-backed event cache.
func NewRedisEventCache(client *redis.Client, ttl time.Duration) *RedisEventCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisEventCache{client: client, ttl: ttl}
}

func eventKey(tenantKey string) string {
	return "connection-event:" + tenantKey
}

// Set stores the latest event for the tenant key with the configured TTL.
func (c *RedisEventCache) Set(ctx context.Context, tenantKey string, event domain.ConnectionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal connection event: %w", err)
	}

	if err := c.client.Set(ctx, eventKey(tenantKey), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("store connection event: %w", err)
	}
	return nil
}

// Get returns the latest event for the tenant key, or ErrNotFound when the
// key is absent or expired.
func (c *RedisEventCache) Get(ctx context.Context, tenantKey string) (*domain.ConnectionEvent, error) {
	data, err := c.client.Get(ctx, eventKey(tenantKey)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.Wrapf(apperrors.ErrNotFound, "no connection event for %s", tenantKey)
		}
		return nil, fmt.Errorf("load connection event: %w", err)
	}

	var event domain.ConnectionEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("decode connection event: %w", err)
	}
	return &event, nil
}
