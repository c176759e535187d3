package repo

import (
	"context"

	"go-gin-ecommerce/internal/domain"

	"gorm.io/gorm"
)

type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Users() domain.UserRepository { return &UserRepo{db: s.db} }
func (s *Store) Products() domain.ProductRepository { return &ProductRepo{db: s.db} }
func (s *Store) Categories() domain.CategoryRepository { return &CategoryRepo{db: s.db} }
func (s *Store) Orders() domain.OrderRepository { return &OrderRepo{db: s.db} }
func (s *Store) Files() domain.FileRepository { return &FileRepo{db: s.db} }

func (s *Store) Transaction(ctx context.Context, fn func(domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Migrate creates or alters the tables of every entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Category{},
		&domain.Product{},
		&domain.User{},
		&domain.Order{},
		&domain.File{},
	)
}
