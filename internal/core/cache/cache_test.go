package cache

import (
	"context"
	"testing"

	"go-gin-ecommerce/internal/core/auth"
	"go-gin-ecommerce/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func exercise(t *testing.T, c UserCache) {
	ctx := context.Background()
	d := &auth.UserDetails{ID: "u-1", Email: "a@x.io", Role: domain.RoleAdmin}

	_, ok := c.Get(ctx, "a@x.io")
	assert.False(t, ok)

	c.Put(ctx, "a@x.io", d)
	got, ok := c.Get(ctx, "a@x.io")
	require.True(t, ok)
	assert.Equal(t, *d, *got)

	c.Invalidate(ctx, "a@x.io")
	_, ok = c.Get(ctx, "a@x.io")
	assert.False(t, ok)

	// invalidating a missing key is a no-op
	c.Invalidate(ctx, "nobody@x.io")
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	c := NewRedis(rdb, zap.NewNop())
	exercise(t, c)

	c.Put(context.Background(), "b@x.io", &auth.UserDetails{Email: "b@x.io"})
	assert.True(t, mr.Exists("user-details:b@x.io"))
	assert.Zero(t, mr.TTL("user-details:b@x.io"))
}

func TestRedisDownIsAMiss(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	c := NewRedis(rdb, zap.NewNop())
	c.Put(context.Background(), "a@x.io", &auth.UserDetails{Email: "a@x.io"})

	mr.Close()
	_, ok := c.Get(context.Background(), "a@x.io")
	assert.False(t, ok)
}
