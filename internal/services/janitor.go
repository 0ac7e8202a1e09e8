package services

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/example/littletreasures/internal/models"
)

// SweepExpiredOTPs deletes OTP records past their expiry and reports how
// many were removed.
func SweepExpiredOTPs(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Where("expires_at < ?", now).Delete(&models.OTPCode{})
	return res.RowsAffected, res.Error
}

// StartOTPJanitor periodically deletes expired OTP records. The queries
// already ignore expired rows, so the sweep only keeps the table from
// growing without bound.
func StartOTPJanitor(db *gorm.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		for range ticker.C {
			purged, err := SweepExpiredOTPs(db, time.Now())
			if err != nil {
				log.Printf("otp janitor: %v", err)
				continue
			}
			if purged > 0 {
				log.Printf("otp janitor: purged %d expired codes", purged)
			}
		}
	}()
}
