// Package cache keeps resolved session roles in Redis so the users
// collection is read once per identity rather than once per request.
package cache

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"renthub/internal/models"
)

const keyPrefix = "renthub:role:"

// RedisRoles implements rentals.RoleCache. Redis failures degrade to cache
// misses.
type RedisRoles struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient accepts either host:port or a redis:// URL.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		if password != "" {
			opts.Password = password
		}
		return redis.NewClient(opts), nil
	}

	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}), nil
}

func NewRedisRoles(client *redis.Client, ttl time.Duration) *RedisRoles {
	return &RedisRoles{client: client, ttl: ttl}
}

// Ping reports whether Redis is reachable. Callers log and carry on.
func (c *RedisRoles) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisRoles) GetRole(ctx context.Context, userID string) (models.Role, bool) {
	value, err := c.client.Get(ctx, keyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		log.Println("[CACHE] [WARN] role lookup failed:", err)
		return "", false
	}

	role := models.Role(value)
	if !role.Valid() {
		return "", false
	}
	return role, true
}

func (c *RedisRoles) SetRole(ctx context.Context, userID string, role models.Role) {
	if err := c.client.Set(ctx, keyPrefix+userID, string(role), c.ttl).Err(); err != nil {
		log.Println("[CACHE] [WARN] role store failed:", err)
	}
}

func (c *RedisRoles) Close() error {
	return c.client.Close()
}
