package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/crm/backend/internal/domain/customer"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewCustomerCache builds the customer cache from configuration. The Redis
// backend is preferred; when Redis is unreachable the in-memory cache takes
// over so the service stays available.
func NewCustomerCache(cfg *config.Config, logger *zap.Logger) customer.Cache {
	if cfg.Cache.Backend == "memory" {
		logger.Info("using in-memory customer cache")
		return NewInMemoryCustomerCache(cfg.Cache.TTL)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, falling back to in-memory customer cache", zap.Error(err))
		return NewInMemoryCustomerCache(cfg.Cache.TTL)
	}

	logger.Info("using redis customer cache",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)))
	return NewRedisCustomerCache(client, cfg.Cache.TTL, logger)
}
