package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/crm/backend/internal/domain/customer"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const customerKeyPrefix = "customer:id:"

// RedisCustomerCache caches customers by id in Redis so lookups are shared
// across instances
type RedisCustomerCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCustomerCache creates a Redis-backed customer cache
func NewRedisCustomerCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCustomerCache {
	return &RedisCustomerCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached customer for the id. Redis errors degrade to a
// cache miss so reads keep working when Redis is down.
func (c *RedisCustomerCache) Get(ctx context.Context, id string) (*customer.Customer, bool) {
	data, err := c.client.Get(ctx, customerKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("customer cache read failed", zap.String("id", id), zap.Error(err))
		return nil, false
	}

	var cust customer.Customer
	if err := json.Unmarshal(data, &cust); err != nil {
		c.logger.Warn("customer cache entry corrupt", zap.String("id", id), zap.Error(err))
		return nil, false
	}
	return &cust, true
}

// Put caches the customer under the given id
func (c *RedisCustomerCache) Put(ctx context.Context, id string, cust *customer.Customer) {
	data, err := json.Marshal(cust)
	if err != nil {
		c.logger.Warn("customer cache marshal failed", zap.String("id", id), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, customerKeyPrefix+id, data, c.ttl).Err(); err != nil {
		c.logger.Warn("customer cache write failed", zap.String("id", id), zap.Error(err))
	}
}

// Evict drops the cached customer for the id
func (c *RedisCustomerCache) Evict(ctx context.Context, id string) {
	if err := c.client.Del(ctx, customerKeyPrefix+id).Err(); err != nil {
		c.logger.Warn("customer cache evict failed", zap.String("id", id), zap.Error(err))
	}
}

// Close releases the underlying Redis connection
func (c *RedisCustomerCache) Close() error {
	return c.client.Close()
}

var _ customer.Cache = (*RedisCustomerCache)(nil)
