package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go-gin-ecommerce/internal/core/auth"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHelpers(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()

	got, err := GetJSON[auth.UserDetails](ctx, rdb, "k")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, SetJSON(ctx, rdb, "k", &auth.UserDetails{ID: "1", Email: "a@x.io"}, time.Minute))
	got, err = GetJSON[auth.UserDetails](ctx, rdb, "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a@x.io", got.Email)
	assert.Equal(t, time.Minute, mr.TTL("k"))

	require.NoError(t, mr.Set("bad", "{not json"))
	_, err = GetJSON[auth.UserDetails](ctx, rdb, "bad")
	assert.Error(t, err)
}

func TestLoaderCollapsesMisses(t *testing.T) {
	var (
		l       Loader[auth.UserDetails]
		mem     = NewMemory()
		calls   atomic.Int32
		entered = make(chan struct{}, 8)
		release = make(chan struct{})
	)
	load := func(context.Context) (*auth.UserDetails, error) {
		calls.Add(1)
		entered <- struct{}{}
		<-release
		return &auth.UserDetails{Email: "a@x.io"}, nil
	}

	var wg sync.WaitGroup
	results := make([]*auth.UserDetails, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := l.GetOrLoad(context.Background(), mem, "a@x.io", load)
			assert.NoError(t, err)
			results[i] = d
		}(i)
		if i == 0 {
			<-entered
		}
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for _, d := range results {
		require.NotNil(t, d)
		assert.Equal(t, "a@x.io", d.Email)
	}
	_, ok := mem.Get(context.Background(), "a@x.io")
	assert.True(t, ok)
}

func TestLoaderDoesNotCacheErrors(t *testing.T) {
	var l Loader[auth.UserDetails]
	mem := NewMemory()
	boom := errors.New("db down")

	_, err := l.GetOrLoad(context.Background(), mem, "a@x.io", func(context.Context) (*auth.UserDetails, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	_, ok := mem.Get(context.Background(), "a@x.io")
	assert.False(t, ok)

	d, err := l.GetOrLoad(context.Background(), mem, "a@x.io", func(context.Context) (*auth.UserDetails, error) {
		return &auth.UserDetails{Email: "a@x.io"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", d.Email)
}

func TestLoaderCancelledCallerStopsWaiting(t *testing.T) {
	var l Loader[auth.UserDetails]
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.GetOrLoad(ctx, NewMemory(), "a@x.io", func(lctx context.Context) (*auth.UserDetails, error) {
		<-release
		return &auth.UserDetails{}, lctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
}
