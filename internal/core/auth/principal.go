package auth

import (
	"context"
	"slices"

	"go-gin-ecommerce/internal/domain"
)

// UserDetails is the cached view of a user the gate attaches to requests.
type UserDetails struct {
	ID            string      `json:"id"`
	Email         string      `json:"email"`
	Role          domain.Role `json:"role"`
	Disabled      bool        `json:"disabled"`
	EmailVerified bool        `json:"emailVerified"`
}

func DetailsOf(u *domain.User) *UserDetails {
	return &UserDetails{
		ID:            u.ID,
		Email:         u.Email,
		Role:          u.Role,
		Disabled:      u.Disabled,
		EmailVerified: u.EmailVerified,
	}
}

func (d *UserDetails) HasRole(roles ...domain.Role) bool {
	return len(roles) == 0 || slices.Contains(roles, d.Role)
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, d *UserDetails) context.Context {
	return context.WithValue(ctx, principalKey{}, d)
}

func PrincipalFrom(ctx context.Context) (*UserDetails, bool) {
	d, ok := ctx.Value(principalKey{}).(*UserDetails)
	return d, ok && d != nil
}
