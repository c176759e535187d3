package service

import (
	"context"

	"go-gin-ecommerce/internal/core/auth"
	"go-gin-ecommerce/internal/domain"
)

// Writes made without a principal (signup, scheduled jobs) leave the
// audit references nil.
func principalID(ctx context.Context) *string {
	p, ok := auth.PrincipalFrom(ctx)
	if !ok {
		return nil
	}
	id := p.ID
	return &id
}

func stampCreate(ctx context.Context, m *domain.Model) {
	m.CreatedByID = principalID(ctx)
	m.UpdatedByID = m.CreatedByID
}

func stampUpdate(ctx context.Context, m *domain.Model) {
	m.UpdatedByID = principalID(ctx)
}
