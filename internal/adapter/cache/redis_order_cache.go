package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jiten398/single-checkout-flow/internal/entity"
	"github.com/jiten398/single-checkout-flow/internal/usecase"
)

const orderKeyPrefix = "order:"

// RedisOrderCache stores orders as JSON. A zero ttl keeps entries forever,
// which is safe because orders are never updated.
type RedisOrderCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisOrderCache(rdb *redis.Client, ttl time.Duration) *RedisOrderCache {
	return &RedisOrderCache{rdb: rdb, ttl: ttl}
}

func (c *RedisOrderCache) Get(ctx context.Context, orderID string) (entity.Order, bool, error) {
	raw, err := c.rdb.Get(ctx, orderKeyPrefix+orderID).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.Order{}, false, nil
	}
	if err != nil {
		return entity.Order{}, false, err
	}
	var o entity.Order
	if err := json.Unmarshal(raw, &o); err != nil {
		return entity.Order{}, false, err
	}
	return o, true, nil
}

func (c *RedisOrderCache) Set(ctx context.Context, o entity.Order) error {
	raw, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, orderKeyPrefix+o.OrderID, raw, c.ttl).Err()
}

var _ usecase.OrderCache = (*RedisOrderCache)(nil)
