package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model is embedded by every persisted entity. CreatedByID and UpdatedByID
// are stamped by the services from the request principal.
type Model struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deletedAt"`
	CreatedByID *string        `gorm:"size:36" json:"createdById"`
	UpdatedByID *string        `gorm:"size:36" json:"updatedById"`
}

func (m *Model) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

type ProductStatus string

const (
	ProductInStock    ProductStatus = "in stock"
	ProductOutOfStock ProductStatus = "out of stock"
)

func ParseProductStatus(s string) (ProductStatus, bool) {
	switch ProductStatus(s) {
	case ProductInStock, ProductOutOfStock:
		return ProductStatus(s), true
	}
	return "", false
}

type OrderStatus string

const (
	OrderInCart OrderStatus = "in cart"
	OrderBought OrderStatus = "bought"
)

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderInCart, OrderBought:
		return OrderStatus(s), true
	}
	return "", false
}

func (m *Model) Deleted() bool { return m.DeletedAt.Valid }
