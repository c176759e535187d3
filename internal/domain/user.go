package domain

import "time"

type User struct {
	Model
	FirstName   string `gorm:"size:255" json:"firstName"`
	LastName    string `gorm:"size:255" json:"lastName"`
	PhoneNumber string `gorm:"size:64" json:"phoneNumber"`
	Email       string `gorm:"size:191;index" json:"email"`
	Role        Role   `gorm:"size:16;not null;default:user" json:"role"`
	Disabled    bool   `gorm:"not null;default:false" json:"disabled"`
	Provider    string `gorm:"size:32" json:"provider"`

	PasswordHash  string `gorm:"column:password;size:100" json:"-"`
	EmailVerified bool   `gorm:"not null;default:false" json:"emailVerified"`

	EmailVerificationToken          *string    `gorm:"size:64;index" json:"-"`
	EmailVerificationTokenExpiresAt *time.Time `json:"-"`
	PasswordResetToken              *string    `gorm:"size:64;index" json:"-"`
	PasswordResetTokenExpiresAt     *time.Time `json:"-"`

	ImportHash *string `gorm:"size:191;uniqueIndex" json:"importHash"`

	Wishlist []Product `gorm:"many2many:users_wishlist;" json:"wishlist"`
	Avatar   []File    `gorm:"-" json:"avatar"`
}

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)
