package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAddValidatesSpec(t *testing.T) {
	s := New(zap.NewNop())
	assert.Error(t, s.Add("bad", "not a cron", func(context.Context) {}))
	// five fields are rejected, seconds are required
	assert.Error(t, s.Add("short", "0 * * * *", func(context.Context) {}))
	assert.NoError(t, s.Add("disabled", "", func(context.Context) {}))
	assert.NoError(t, s.Add("hourly", "0 0 * * * *", func(context.Context) {}))
}

func TestJobRuns(t *testing.T) {
	s := New(zap.NewNop())
	var runs atomic.Int32
	require.NoError(t, s.Add("tick", "@every 1s", func(context.Context) { runs.Add(1) }))
	s.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Stop(ctx)
	}()

	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
