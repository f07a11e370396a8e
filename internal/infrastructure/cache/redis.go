package cache

import (
	"context"
	"fmt"
	"time"

	"patient-manager/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logrus.Info("Successfully connected to Redis")

	return client, nil
}

// URLCache stores short-lived strings, used for presigned document URLs so
// repeated listings don't regenerate them on every request.
type URLCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

const urlCacheKeyPrefix = "file:url:"

type redisURLCache struct {
	client *redis.Client
}

func NewRedisURLCache(client *redis.Client) URLCache {
	return &redisURLCache{client: client}
}

// Get returns "" without error on a cache miss.
func (c *redisURLCache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, urlCacheKeyPrefix+key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (c *redisURLCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, urlCacheKeyPrefix+key, value, ttl).Err()
}
