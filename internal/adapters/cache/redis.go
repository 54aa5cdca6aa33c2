package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"anjia-property-service/internal/core/port"
)

const scanCount = 100

// RedisConfig describes the shared cache instance. Key namespacing is the
// cache's concern; see NewRedisCache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisCache keeps entries in Redis so several instances share one cache.
// Redis failures degrade to cache misses.
type RedisCache struct {
	client    redis.UniversalClient
	namespace string
	logger    port.LoggerPort
}

// NewRedisClient connects and pings.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// NewRedisCache prefixes every key with namespace so several services can share a database.
func NewRedisCache(client redis.UniversalClient, namespace string, logger port.LoggerPort) *RedisCache {
	if namespace != "" && !strings.HasSuffix(namespace, ":") {
		namespace += ":"
	}
	return &RedisCache{
		client:    client,
		namespace: namespace,
		logger:    logger.WithFields(port.Fields{"component": "redis_cache"}),
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, c.namespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Redis GET failed, treating as miss", port.Fields{"key": key, "error": err.Error()})
		return nil, false
	}
	return data, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := c.client.Set(ctx, c.namespace+key, value, ttl).Err(); err != nil {
		c.logger.Warn("Redis SET failed", port.Fields{"key": key, "error": err.Error()})
	}
}

func (c *RedisCache) Delete(ctx context.Context, key string) bool {
	n, err := c.client.Del(ctx, c.namespace+key).Result()
	if err != nil {
		c.logger.Warn("Redis DEL failed", port.Fields{"key": key, "error": err.Error()})
		return false
	}
	return n > 0
}

func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) int {
	pattern := escapeGlob(c.namespace+prefix) + "*"

	var keys []string
	var cursor uint64
	for {
		batch, next, err := c.client.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			c.logger.Error("Redis SCAN failed", err, port.Fields{"pattern": pattern})
			return 0
		}
		keys = append(keys, batch...)
		if cursor = next; cursor == 0 {
			break
		}
	}
	if len(keys) == 0 {
		return 0
	}

	pipe := c.client.Pipeline()
	for _, key := range keys {
		pipe.Del(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Error("Redis pipeline DEL failed", err, port.Fields{"keys": len(keys)})
		return 0
	}
	c.logger.Debug("Cache keys invalidated", port.Fields{"pattern": pattern, "deleted": len(keys)})
	return len(keys)
}

// escapeGlob quotes the characters SCAN MATCH treats as wildcards.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
