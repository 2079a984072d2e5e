// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

package comic

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResponseCache is the keyed response cache capability used by the query
// engine. Implementations must treat a miss as (nil, false), never an error;
// infrastructure failures degrade to misses so the read path stays up when
// the cache is down.
type ResponseCache interface {
	Get(context context.Context, key string) ([]byte, bool)
	Set(context context.Context, key string, value []byte, ttl time.Duration)
	Del(context context.Context, keys ...string)
}

// RedisResponseCache backs [ResponseCache] with a Redis client.
type RedisResponseCache struct {
	client *redis.Client
}

func NewRedisResponseCache(client *redis.Client) *RedisResponseCache {
	return &RedisResponseCache{client: client}
}

func (cache *RedisResponseCache) Get(context context.Context, key string) ([]byte, bool) {
	value, err := cache.client.Get(context, key).Bytes()
	if err != nil {
		return nil, false
	}
	return value, true
}

func (cache *RedisResponseCache) Set(context context.Context, key string, value []byte, ttl time.Duration) {
	cache.client.Set(context, key, value, ttl)
}

func (cache *RedisResponseCache) Del(context context.Context, keys ...string) {
	cache.client.Del(context, keys...)
}
