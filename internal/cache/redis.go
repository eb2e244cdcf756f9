// Package cache is a thin JSON layer over redis. When redis is disabled in
// config every call degrades to a no-op, so callers treat the cache as
// best-effort.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/inkfolio-shop/internal/config"

	"github.com/redis/go-redis/v9"
)

var store struct {
	client *redis.Client
	prefix string
}

// InitRedis initializes the shared redis client.
func InitRedis(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		store.client = nil
		return nil
	}

	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	store.prefix = strings.TrimSpace(cfg.Prefix)
	if store.prefix == "" {
		store.prefix = "ink"
	}
	store.client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return nil
}

// Enabled reports whether caching is active.
func Enabled() bool {
	return store.client != nil
}

// Client returns the redis client, or nil when caching is disabled.
func Client() *redis.Client {
	return store.client
}

// GetJSON reads a cached JSON value into dest. The bool reports a hit.
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !Enabled() {
		return false, nil
	}
	raw, err := store.client.Get(ctx, buildKey(key)).Bytes()
	switch {
	case err == redis.Nil:
		return false, nil
	case err != nil:
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value as JSON under key with a TTL.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !Enabled() {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.client.Set(ctx, buildKey(key), payload, ttl).Err()
}

// Del removes a cached key.
func Del(ctx context.Context, key string) error {
	if !Enabled() {
		return nil
	}
	return store.client.Del(ctx, buildKey(key)).Err()
}

// DelByPrefix removes every key under the given prefix. Used to drop the
// catalog cache after an admin write.
func DelByPrefix(ctx context.Context, prefix string) error {
	if !Enabled() {
		return nil
	}
	iter := store.client.Scan(ctx, 0, buildKey(strings.TrimSpace(prefix))+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := store.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func buildKey(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return store.prefix
	}
	return store.prefix + ":" + trimmed
}
