package repo

import (
	"context"
	"errors"

	"go-gin-ecommerce/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepo struct{ db *gorm.DB }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(u).Error
}

func (r *UserRepo) Save(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(u).Error
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&u).Association("Wishlist").Find(&u.Wishlist); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *UserRepo) FindByEmailVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	return r.findOne(ctx, "email_verification_token = ?", token)
}

func (r *UserRepo) FindByPasswordResetToken(ctx context.Context, token string) (*domain.User, error) {
	return r.findOne(ctx, "password_reset_token = ?", token)
}

func (r *UserRepo) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	var n int64
	tx := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email)
	if exceptID != "" {
		tx = tx.Where("id <> ?", exceptID)
	}
	err := tx.Count(&n).Error
	return n > 0, err
}

func (r *UserRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.User, error) {
	tx, err := applyList(r.db.WithContext(ctx).Preload("Wishlist"), q, userSortable)
	if err != nil {
		return nil, err
	}
	var users []domain.User
	return users, tx.Find(&users).Error
}

func (r *UserRepo) Autocomplete(ctx context.Context, prefix string, limit int) ([]domain.User, error) {
	tx, err := applyAutocomplete(r.db.WithContext(ctx), "email", prefix, limit)
	if err != nil {
		return nil, err
	}
	var users []domain.User
	return users, tx.Find(&users).Error
}

// AdminList pages by row offset and matches q against email and names.
func (r *UserRepo) AdminList(ctx context.Context, offset, limit int, q string, withDeleted bool) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	if withDeleted {
		tx = tx.Unscoped()
	}
	if q != "" {
		like := "%" + likeEscaper.Replace(q) + "%"
		tx = tx.Where("email LIKE ? ESCAPE '!' OR first_name LIKE ? ESCAPE '!' OR last_name LIKE ? ESCAPE '!'", like, like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	err := tx.Order(orderBy("created_at", true)).Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *UserRepo) ReplaceWishlist(ctx context.Context, u *domain.User, products []domain.Product) error {
	a := r.db.WithContext(ctx).Model(u).Association("Wishlist")
	if len(products) == 0 {
		u.Wishlist = []domain.Product{}
		return a.Clear()
	}
	if err := a.Replace(products); err != nil {
		return err
	}
	u.Wishlist = products
	return nil
}

func (r *UserRepo) FindUnverifiedWithToken(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("email_verified = ? AND email_verification_token IS NOT NULL", false).
		Find(&users).Error
	return users, err
}

func (r *UserRepo) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{}).Error
}

// HardDelete removes the row and its wishlist links.
func (r *UserRepo) HardDelete(ctx context.Context, id string) error {
	u := domain.User{Model: domain.Model{ID: id}}
	if err := r.db.WithContext(ctx).Model(&u).Association("Wishlist").Clear(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&domain.User{}).Error
}
