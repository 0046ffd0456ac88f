package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renthub/internal/models"
)

func unreachable(t *testing.T) *RedisRoles {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	roles := NewRedisRoles(client, time.Minute)
	t.Cleanup(func() { _ = roles.Close() })
	return roles
}

func TestRedisRoles_UnreachableServerIsAMiss(t *testing.T) {
	roles := unreachable(t)
	ctx := context.Background()

	roles.SetRole(ctx, "tenant-1", models.RoleTenant)
	role, ok := roles.GetRole(ctx, "tenant-1")

	assert.False(t, ok)
	assert.Empty(t, role)
	assert.Error(t, roles.Ping(ctx))
}

func TestNewRedisClient_ParsesURL(t *testing.T) {
	client, err := NewRedisClient("redis://:secret@cache.internal:6380/2", "", 0)
	require.NoError(t, err)
	defer client.Close()

	opts := client.Options()
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
}

func TestNewRedisClient_PlainAddress(t *testing.T) {
	client, err := NewRedisClient("localhost:6379", "pw", 3)
	require.NoError(t, err)
	defer client.Close()

	opts := client.Options()
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 3, opts.DB)
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient("redis://host:port:extra/x", "", 0)
	assert.Error(t, err)
}
