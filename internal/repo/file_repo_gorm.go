package repo

import (
	"context"

	"go-gin-ecommerce/internal/domain"

	"gorm.io/gorm"
)

type FileRepo struct{ db *gorm.DB }

func (r *FileRepo) Create(ctx context.Context, f *domain.File) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FileRepo) owned(ctx context.Context, a domain.Attachment) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("belongs_to = ? AND belongs_to_column = ?", a.Owner, a.Column).
		Order(orderBy("created_at", false)).
		Order(orderBy("id", false))
}

func (r *FileRepo) FindByOwner(ctx context.Context, a domain.Attachment, ownerID string) ([]domain.File, error) {
	var out []domain.File
	err := r.owned(ctx, a).Where("belongs_to_id = ?", ownerID).Find(&out).Error
	return out, err
}

func (r *FileRepo) FindByOwners(ctx context.Context, a domain.Attachment, ownerIDs []string) (map[string][]domain.File, error) {
	grouped := make(map[string][]domain.File, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return grouped, nil
	}
	var files []domain.File
	if err := r.owned(ctx, a).Where("belongs_to_id IN ?", ownerIDs).Find(&files).Error; err != nil {
		return nil, err
	}
	for _, f := range files {
		grouped[f.BelongsToID] = append(grouped[f.BelongsToID], f)
	}
	return grouped, nil
}

func (r *FileRepo) ExistsByPrivateURL(ctx context.Context, privateURL string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.File{}).Where("private_url = ?", privateURL).Count(&n).Error
	return n > 0, err
}

func (r *FileRepo) AllByOwner(ctx context.Context, owner domain.FileOwner) ([]domain.File, error) {
	var out []domain.File
	err := r.db.WithContext(ctx).Unscoped().Where("belongs_to = ?", owner).Find(&out).Error
	return out, err
}

func (r *FileRepo) SoftDelete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.File{}).Error
}

func (r *FileRepo) HardDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&domain.File{}).Error
}
