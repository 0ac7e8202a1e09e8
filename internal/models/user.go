package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a storefront customer account.
type User struct {
	BaseModel
	Name          string        `json:"name"`
	Email         string        `gorm:"uniqueIndex" json:"email"`
	PasswordHash  string        `json:"-"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	DateOfBirth   *time.Time    `json:"date_of_birth"`
	Gender        string        `json:"gender"`
	Role          string        `gorm:"default:customer" json:"role"`
	IsActive      bool          `json:"is_active"`
	EmailVerified bool          `json:"email_verified"`
	Avatar        string        `json:"avatar"`
	LoginAttempts int           `json:"-"`
	LockUntil     *time.Time    `json:"-"`
	LastLogin     *time.Time    `json:"last_login"`
	Addresses     []UserAddress `json:"addresses,omitempty"`
	Orders        []Order       `json:"orders,omitempty"`
	Wishlist      []Product     `gorm:"many2many:user_wishlist;" json:"wishlist,omitempty"`
}

// UserAddress is a saved delivery address belonging to a user.
type UserAddress struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Type      string    `gorm:"default:home" json:"type"` // home|work|other
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Pincode   string    `json:"pincode"`
	Country   string    `gorm:"default:India" json:"country"`
	IsDefault bool      `json:"is_default"`
}

// Locked reports whether the account is inside an active lockout window.
func (u *User) Locked(now time.Time) bool {
	return u.LockUntil != nil && now.Before(*u.LockUntil)
}
