package models

import (
	"time"

	"github.com/lib/pq"
)

// Admin is a back-office account. Admins live in their own table and are a
// distinct principal space from customers; the two must never be confused.
type Admin struct {
	BaseModel
	Username      string         `gorm:"uniqueIndex" json:"username"`
	Email         string         `gorm:"uniqueIndex" json:"email"`
	PasswordHash  string         `json:"-"`
	Role          string         `gorm:"default:admin" json:"role"`
	Permissions   pq.StringArray `gorm:"type:text[]" json:"permissions"`
	Avatar        string         `json:"avatar"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	LoginAttempts int            `json:"-"`
	LockUntil     *time.Time     `json:"-"`
	LastLogin     *time.Time     `json:"last_login"`
}

// DefaultAdminPermissions is granted to newly seeded admin accounts.
var DefaultAdminPermissions = pq.StringArray{"products", "orders", "users", "dashboard", "analytics"}

// Locked reports whether the account is inside an active lockout window.
func (a *Admin) Locked(now time.Time) bool {
	return a.LockUntil != nil && now.Before(*a.LockUntil)
}
