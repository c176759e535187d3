package service

import (
	"context"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/core/auth"
	"go-gin-ecommerce/internal/core/cache"
	"go-gin-ecommerce/internal/domain"
)

// UserDetailsService resolves usernames for the authentication gate,
// reading through the user cache. Concurrent misses for one username share
// a single store lookup.
type UserDetailsService struct {
	store  domain.Store
	cache  cache.UserCache
	loader cache.Loader[auth.UserDetails]
}

func NewUserDetailsService(store domain.Store, c cache.UserCache) *UserDetailsService {
	return &UserDetailsService{store: store, cache: c}
}

// Load returns the details of the non-deleted user with email username.
func (s *UserDetailsService) Load(ctx context.Context, username string) (*auth.UserDetails, error) {
	return s.loader.GetOrLoad(ctx, s.cache, username, func(ctx context.Context) (*auth.UserDetails, error) {
		u, err := s.store.Users().FindByEmail(ctx, username)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, apperr.BadCredentials()
		}
		return auth.DetailsOf(u), nil
	})
}

func (s *UserDetailsService) Invalidate(ctx context.Context, usernames ...string) {
	for _, u := range usernames {
		if u != "" {
			s.cache.Invalidate(ctx, u)
		}
	}
}
