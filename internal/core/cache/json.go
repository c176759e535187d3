package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// GetJSON 读取 key 并按 JSON 解码；key 不存在时返回 (nil, nil)
func GetJSON[T any](ctx context.Context, rdb redis.UniversalClient, key string) (*T, error) {
	b, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetJSON 按 JSON 编码写入；ttl 为 0 表示不过期
func SetJSON[T any](ctx context.Context, rdb redis.UniversalClient, key string, v *T, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err()
}

// Backend is a cache that a Loader reads through.
type Backend[T any] interface {
	Get(ctx context.Context, key string) (*T, bool)
	Put(ctx context.Context, key string, v *T)
}

// Loader collapses concurrent misses for one key into a single load.
type Loader[T any] struct {
	sf singleflight.Group
}

// GetOrLoad returns the cached value or loads, stores and returns it. The
// shared load does not inherit the cancellation of the caller that started
// it; every caller stops waiting when its own ctx is done.
func (l *Loader[T]) GetOrLoad(ctx context.Context, c Backend[T], key string, load func(context.Context) (*T, error)) (*T, error) {
	// 先读缓存
	if v, ok := c.Get(ctx, key); ok {
		return v, nil
	}
	// single flight 合并回源
	ch := l.sf.DoChan(key, func() (any, error) {
		lctx := context.WithoutCancel(ctx)
		v, err := load(lctx)
		if err != nil {
			return nil, err
		}
		c.Put(lctx, key, v)
		return v, nil
	})
	select {
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*T), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
