package cache

import (
	"context"

	"go-gin-ecommerce/internal/core/auth"
	"go-gin-ecommerce/internal/core/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "user-details:"

func NewRedisClient(c config.Redis) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB})
}

// Redis 在 API 与 admin 进程间共享缓存；Redis 出错按未命中处理并记日志
type Redis struct {
	rdb redis.UniversalClient
	log *zap.Logger
}

func NewRedis(rdb redis.UniversalClient, l *zap.Logger) *Redis {
	return &Redis{rdb: rdb, log: l}
}

func (c *Redis) Get(ctx context.Context, username string) (*auth.UserDetails, bool) {
	d, err := GetJSON[auth.UserDetails](ctx, c.rdb, keyPrefix+username)
	if err != nil {
		c.log.Warn("user cache get", zap.String("email", username), zap.Error(err))
		return nil, false
	}
	return d, d != nil
}

func (c *Redis) Put(ctx context.Context, username string, d *auth.UserDetails) {
	if err := SetJSON(ctx, c.rdb, keyPrefix+username, d, 0); err != nil {
		c.log.Warn("user cache put", zap.String("email", username), zap.Error(err))
	}
}

func (c *Redis) Invalidate(ctx context.Context, username string) {
	if err := c.rdb.Del(ctx, keyPrefix+username).Err(); err != nil {
		c.log.Warn("user cache invalidate", zap.String("email", username), zap.Error(err))
	}
}
