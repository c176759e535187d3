package repo

import (
	"context"
	"errors"

	"go-gin-ecommerce/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepo struct{ db *gorm.DB }

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *ProductRepo) Save(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)
	if err := db.Model(&p).Association("Categories").Find(&p.Categories); err != nil {
		return nil, err
	}
	if err := db.Model(&p).Association("Related").Find(&p.Related); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	var out []domain.Product
	if len(ids) == 0 {
		return out, nil
	}
	return out, r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
}

func (r *ProductRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.Product, error) {
	tx, err := applyList(r.db.WithContext(ctx).Preload("Categories").Preload("Related"), q, productSortable)
	if err != nil {
		return nil, err
	}
	var out []domain.Product
	return out, tx.Find(&out).Error
}

func (r *ProductRepo) Autocomplete(ctx context.Context, prefix string, limit int) ([]domain.Product, error) {
	tx, err := applyAutocomplete(r.db.WithContext(ctx), "title", prefix, limit)
	if err != nil {
		return nil, err
	}
	var out []domain.Product
	return out, tx.Find(&out).Error
}

func (r *ProductRepo) ReplaceCategories(ctx context.Context, p *domain.Product, categories []domain.Category) error {
	a := r.db.WithContext(ctx).Model(p).Association("Categories")
	if len(categories) == 0 {
		p.Categories = []domain.Category{}
		return a.Clear()
	}
	if err := a.Replace(categories); err != nil {
		return err
	}
	p.Categories = categories
	return nil
}

func (r *ProductRepo) ReplaceRelated(ctx context.Context, p *domain.Product, related []domain.Product) error {
	a := r.db.WithContext(ctx).Model(p).Association("Related")
	if len(related) == 0 {
		p.Related = []domain.Product{}
		return a.Clear()
	}
	if err := a.Replace(related); err != nil {
		return err
	}
	p.Related = related
	return nil
}

func (r *ProductRepo) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{}).Error
}

type CategoryRepo struct{ db *gorm.DB }

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CategoryRepo) Save(ctx context.Context, c *domain.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CategoryRepo) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *CategoryRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.Category, error) {
	var out []domain.Category
	if len(ids) == 0 {
		return out, nil
	}
	return out, r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
}

func (r *CategoryRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.Category, error) {
	tx, err := applyList(r.db.WithContext(ctx), q, categorySortable)
	if err != nil {
		return nil, err
	}
	var out []domain.Category
	return out, tx.Find(&out).Error
}

func (r *CategoryRepo) Autocomplete(ctx context.Context, prefix string, limit int) ([]domain.Category, error) {
	tx, err := applyAutocomplete(r.db.WithContext(ctx), "title", prefix, limit)
	if err != nil {
		return nil, err
	}
	var out []domain.Category
	return out, tx.Find(&out).Error
}

func (r *CategoryRepo) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Category{}).Error
}
