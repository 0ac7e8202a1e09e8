package models

import (
	"time"
)

// OTP purposes.
const (
	OTPPurposeRegistration  = "registration"
	OTPPurposeLogin         = "login"
	OTPPurposePasswordReset = "password_reset"
)

// OTPCode is a short-lived email verification code. A record is single-use:
// once verified and acted upon it is deleted, and expired rows are purged
// by the janitor.
type OTPCode struct {
	BaseModel
	Email     string    `gorm:"index" json:"email"`
	Code      string    `json:"-"`
	Purpose   string    `gorm:"index" json:"purpose"`
	Verified  bool      `json:"verified"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}

// ValidOTPPurpose reports whether p is a known OTP purpose.
func ValidOTPPurpose(p string) bool {
	switch p {
	case OTPPurposeRegistration, OTPPurposeLogin, OTPPurposePasswordReset:
		return true
	}
	return false
}

// Expired reports whether the code is past its expiry.
func (o *OTPCode) Expired(now time.Time) bool {
	return o.ExpiresAt.Before(now)
}
