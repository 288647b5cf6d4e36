package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang-stock-advisor/pkg/logger"
	redisPkg "golang-stock-advisor/pkg/redis"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// MarketDataCache caches market data responses as JSON.
type MarketDataCache interface {
	// Get decodes the cached value for key into dst and reports whether it was present.
	Get(ctx context.Context, key string, dst interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
}

// NewInMemoryMarketDataCache creates a process-local cache.
func NewInMemoryMarketDataCache(defaultTTL time.Duration) MarketDataCache {
	return &inMemoryMarketDataCache{
		cache: cache.New(defaultTTL, 2*defaultTTL),
	}
}

type inMemoryMarketDataCache struct {
	cache *cache.Cache
}

func (c *inMemoryMarketDataCache) Get(_ context.Context, key string, dst interface{}) bool {
	raw, found := c.cache.Get(key)
	if !found {
		return false
	}
	return json.Unmarshal(raw.([]byte), dst) == nil
}

func (c *inMemoryMarketDataCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.cache.Set(key, raw, ttl)
}

// NewRedisMarketDataCache creates a cache shared by every process using the same Redis.
func NewRedisMarketDataCache(client *redisPkg.Client, log *logger.Logger) MarketDataCache {
	return &redisMarketDataCache{client: client, log: log}
}

type redisMarketDataCache struct {
	client *redisPkg.Client
	log    *logger.Logger
}

func (c *redisMarketDataCache) Get(ctx context.Context, key string, dst interface{}) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WarnContext(ctx, "Failed to read market data cache", logger.ErrorField(err), logger.StringField("key", key))
		}
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (c *redisMarketDataCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "Failed to write market data cache", logger.ErrorField(err), logger.StringField("key", key))
	}
}
