package repo

import (
	"context"
	"errors"

	"go-gin-ecommerce/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepo struct{ db *gorm.DB }

func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error
}

func (r *OrderRepo) Save(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(o).Error
}

func (r *OrderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, r.loadRefs(ctx, &o)
}

func (r *OrderRepo) loadRefs(ctx context.Context, o *domain.Order) error {
	db := r.db.WithContext(ctx)
	if o.ProductID != nil {
		var p domain.Product
		err := db.Where("id = ?", *o.ProductID).First(&p).Error
		switch {
		case err == nil:
			o.Product = &p
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
	}
	if o.UserID != nil {
		var u domain.User
		err := db.Where("id = ?", *o.UserID).First(&u).Error
		switch {
		case err == nil:
			o.User = &u
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
	}
	return nil
}

func (r *OrderRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.Order, error) {
	tx, err := applyList(r.db.WithContext(ctx).Preload("Product").Preload("User"), q, orderSortable)
	if err != nil {
		return nil, err
	}
	var out []domain.Order
	return out, tx.Find(&out).Error
}

func (r *OrderRepo) ClearProduct(ctx context.Context, productID string) error {
	return r.db.WithContext(ctx).Unscoped().Model(&domain.Order{}).
		Where("product_id = ?", productID).
		UpdateColumn("product_id", nil).Error
}

func (r *OrderRepo) ClearUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Unscoped().Model(&domain.Order{}).
		Where("user_id = ?", userID).
		UpdateColumn("user_id", nil).Error
}

func (r *OrderRepo) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Order{}).Error
}
