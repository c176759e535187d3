// Package cache holds the user lookup cache: one entry per username, no
// expiry, dropped only by Invalidate.
package cache

import (
	"context"
	"sync"

	"go-gin-ecommerce/internal/core/auth"
)

type UserCache interface {
	Backend[auth.UserDetails]
	Invalidate(ctx context.Context, username string)
}

// Memory is a process-local UserCache.
type Memory struct{ m sync.Map }

func NewMemory() *Memory { return &Memory{} }

func (c *Memory) Get(_ context.Context, username string) (*auth.UserDetails, bool) {
	v, ok := c.m.Load(username)
	if !ok {
		return nil, false
	}
	return v.(*auth.UserDetails), true
}

func (c *Memory) Put(_ context.Context, username string, d *auth.UserDetails) {
	c.m.Store(username, d)
}

func (c *Memory) Invalidate(_ context.Context, username string) {
	c.m.Delete(username)
}
