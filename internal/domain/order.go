package domain

import "time"

// Order references a product and a user. Either side becomes nil when the
// referenced record is deleted.
type Order struct {
	Model
	OrderDate  *time.Time  `json:"order_date"`
	Amount     int         `json:"amount"`
	Status     OrderStatus `gorm:"size:16" json:"status"`
	ImportHash *string     `gorm:"size:191;uniqueIndex" json:"importHash"`

	ProductID *string  `gorm:"size:36;index" json:"productId"`
	Product   *Product `gorm:"constraint:OnDelete:SET NULL" json:"product"`
	UserID    *string  `gorm:"size:36;index" json:"userId"`
	User      *User    `gorm:"constraint:OnDelete:SET NULL" json:"user"`
}
