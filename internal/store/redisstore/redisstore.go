package redisstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is a small TTL key-value cache. Backed by redis when a client is
// supplied, by process memory otherwise. Backend failures degrade to cache
// misses: callers always recompute on a miss.
type Cache struct {
	rdb *redis.Client
	log *zap.Logger

	mu  sync.Mutex
	mem map[string]memEntry
}

type memEntry struct {
	value     string
	expiresAt time.Time
}

// NewClient builds a redis client, or nil when no address is configured.
func NewClient(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func New(rdb *redis.Client, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{rdb: rdb, log: log, mem: make(map[string]memEntry)}
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if c.rdb != nil {
		v, err := c.rdb.Get(ctx, key).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				c.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
			}
			return "", false
		}
		return v, true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.mem[key]
	if !ok || time.Now().After(e.expiresAt) {
		delete(c.mem, key)
		return "", false
	}
	return e.value, true
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
			c.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
		return
	}

	c.mu.Lock()
	c.mem[key] = memEntry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}
