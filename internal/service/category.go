package service

import (
	"context"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/domain"
)

type CategoryInput struct {
	Title      string  `json:"title"`
	ImportHash *string `json:"importHash"`
}

type CategoryService struct{ store domain.Store }

func NewCategoryService(store domain.Store) *CategoryService { return &CategoryService{store: store} }

func (s *CategoryService) List(ctx context.Context, q domain.ListQuery) ([]domain.Category, error) {
	return s.store.Categories().List(ctx, q)
}

func (s *CategoryService) Autocomplete(ctx context.Context, prefix string, limit int) ([]domain.Category, error) {
	return s.store.Categories().Autocomplete(ctx, prefix, limit)
}

func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	c, err := s.store.Categories().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.Missing(apperr.MsgCategoryNotFound, id)
	}
	return c, nil
}

func (s *CategoryService) Save(ctx context.Context, in *CategoryInput) (*domain.Category, error) {
	c := domain.Category{Title: in.Title, ImportHash: in.ImportHash}
	stampCreate(ctx, &c.Model)
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		return tx.Categories().Create(ctx, &c)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, in *CategoryInput) (*domain.Category, error) {
	var c *domain.Category
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		var err error
		if c, err = findLive(ctx, tx.Categories().FindByID, id, apperr.MsgCategoryNotFound); err != nil {
			return err
		}
		c.Title = in.Title
		c.ImportHash = in.ImportHash
		stampUpdate(ctx, &c.Model)
		return tx.Categories().Save(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.store.Transaction(ctx, func(tx domain.Store) error {
		if _, err := findLive(ctx, tx.Categories().FindByID, id, apperr.MsgCategoryNotFound); err != nil {
			return err
		}
		return tx.Categories().SoftDelete(ctx, id)
	})
}
