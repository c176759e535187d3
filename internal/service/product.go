package service

import (
	"context"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/domain"

	"go.uber.org/zap"
)

type ProductInput struct {
	Title       string      `json:"title"`
	Price       float64     `json:"price"`
	Discount    float64     `json:"discount"`
	Description string      `json:"description"`
	Rating      int         `json:"rating"`
	Status      string      `json:"status"`
	ImportHash  *string     `json:"importHash"`
	Categories  []string    `json:"categories"`
	Related     []string    `json:"more_products"`
	Image       []FileInput `json:"image"`
}

type ProductService struct {
	store domain.Store
	files attacher
	log   *zap.Logger
}

func NewProductService(store domain.Store, opts Options, l *zap.Logger) *ProductService {
	return &ProductService{store: store, files: attacher{downloadURL: opts.DownloadURL}, log: l}
}

func (s *ProductService) withImages(ctx context.Context, products []domain.Product) error {
	byOwner, err := s.store.Files().FindByOwners(ctx, domain.ProductImage, idsOf(products, func(p *domain.Product) string { return p.ID }))
	if err != nil {
		return err
	}
	for i := range products {
		products[i].Images = nonNil(byOwner[products[i].ID])
	}
	return nil
}

func (s *ProductService) List(ctx context.Context, q domain.ListQuery) ([]domain.Product, error) {
	products, err := s.store.Products().List(ctx, q)
	if err != nil {
		return nil, err
	}
	return products, s.withImages(ctx, products)
}

func (s *ProductService) Autocomplete(ctx context.Context, prefix string, limit int) ([]domain.Product, error) {
	return s.store.Products().Autocomplete(ctx, prefix, limit)
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.Missing(apperr.MsgProductNotFound, id)
	}
	products := []domain.Product{*p}
	if err := s.withImages(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

func applyProduct(p *domain.Product, in *ProductInput) error {
	var status domain.ProductStatus
	if in.Status != "" {
		st, ok := domain.ParseProductStatus(in.Status)
		if !ok {
			return apperr.Invalid(apperr.MsgInvalidStatus, in.Status)
		}
		status = st
	}
	p.Title = in.Title
	p.Price = in.Price
	p.Discount = in.Discount
	p.Description = in.Description
	p.Rating = in.Rating
	p.Status = status
	p.ImportHash = in.ImportHash
	return nil
}

func (s *ProductService) relate(ctx context.Context, tx domain.Store, p *domain.Product, in *ProductInput) error {
	if in.Categories != nil {
		ids := uniq(in.Categories)
		cats, err := tx.Categories().FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if missing := firstMissing(ids, cats, func(c *domain.Category) string { return c.ID }); missing != "" {
			return apperr.Missing(apperr.MsgCategoryNotFound, missing)
		}
		if err := tx.Products().ReplaceCategories(ctx, p, cats); err != nil {
			return err
		}
	}
	if in.Related != nil {
		ids := uniq(in.Related)
		related, err := tx.Products().FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if missing := firstMissing(ids, related, func(p *domain.Product) string { return p.ID }); missing != "" {
			return apperr.Missing(apperr.MsgProductNotFound, missing)
		}
		if err := tx.Products().ReplaceRelated(ctx, p, related); err != nil {
			return err
		}
	}
	if in.Image != nil {
		files, err := s.files.reconcile(ctx, tx, domain.ProductImage, p.ID, in.Image)
		if err != nil {
			return err
		}
		p.Images = files
		return nil
	}
	files, err := tx.Files().FindByOwner(ctx, domain.ProductImage, p.ID)
	p.Images = nonNil(files)
	return err
}

func (s *ProductService) Save(ctx context.Context, in *ProductInput) (*domain.Product, error) {
	var p domain.Product
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		if err := applyProduct(&p, in); err != nil {
			return err
		}
		stampCreate(ctx, &p.Model)
		if err := tx.Products().Create(ctx, &p); err != nil {
			return err
		}
		return s.relate(ctx, tx, &p, in)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) Update(ctx context.Context, id string, in *ProductInput) (*domain.Product, error) {
	var p *domain.Product
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		var err error
		if p, err = findLive(ctx, tx.Products().FindByID, id, apperr.MsgProductNotFound); err != nil {
			return err
		}
		if err := applyProduct(p, in); err != nil {
			return err
		}
		stampUpdate(ctx, &p.Model)
		if err := tx.Products().Save(ctx, p); err != nil {
			return err
		}
		return s.relate(ctx, tx, p, in)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Delete soft-deletes the product and detaches the orders that reference it.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		if _, err := findLive(ctx, tx.Products().FindByID, id, apperr.MsgProductNotFound); err != nil {
			return err
		}
		if err := tx.Orders().ClearProduct(ctx, id); err != nil {
			return err
		}
		return tx.Products().SoftDelete(ctx, id)
	})
	if err == nil {
		s.log.Info("product deleted", zap.String("id", id))
	}
	return err
}
