package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a small JSON cache in front of the heavier analytics queries.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(addr, password string, db int) *RedisCache {
	return &RedisCache{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (c *RedisCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

// NoopCache stands in when REDIS_ADDR is unset: every read misses, every
// write succeeds silently.
type NoopCache struct{}

func (NoopCache) GetJSON(context.Context, string, any) (bool, error) { return false, nil }

func (NoopCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }
