package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/marketgo/backend/domain"
)

// OrderCache keeps hot order snapshots in Redis. The database stays the source
// of truth; cache misses and cache errors both fall through to Postgres.
type OrderCache struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewOrderCache creates a Redis-backed order snapshot cache.
func NewOrderCache(client *redislib.Client, ttl time.Duration) *OrderCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &OrderCache{
		client: client,
		prefix: "order:",
		ttl:    ttl,
	}
}

// Get returns the cached order or nil on a miss.
func (c *OrderCache) Get(ctx context.Context, id string) (*domain.Order, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	result, err := c.client.Get(ctx, c.key(id)).Result()
	if err != nil {
		if err == redislib.Nil {
			return nil, nil
		}
		return nil, err
	}

	var order domain.Order
	if err := json.Unmarshal([]byte(result), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Set stores an order snapshot with the configured TTL.
func (c *OrderCache) Set(ctx context.Context, order *domain.Order) error {
	if c == nil || c.client == nil {
		return nil
	}
	if order == nil || order.ID == "" {
		return domain.ErrInvalidPayload
	}

	payload, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(order.ID), payload, c.ttl).Err()
}

// Invalidate drops the cached snapshot after a mutation.
func (c *OrderCache) Invalidate(ctx context.Context, id string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.key(id)).Err()
}

func (c *OrderCache) key(id string) string {
	return fmt.Sprintf("%s%s", c.prefix, id)
}
