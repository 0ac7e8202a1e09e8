package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/littletreasures/internal/models"
)

func createOTP(t *testing.T, db *gorm.DB, email string, expiresAt time.Time) models.OTPCode {
	t.Helper()

	record := models.OTPCode{
		Email:     email,
		Code:      "123456",
		Purpose:   models.OTPPurposeRegistration,
		ExpiresAt: expiresAt,
	}
	require.NoError(t, db.Create(&record).Error, "failed to create OTP record")
	return record
}

func TestSweepExpiredOTPs(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	createOTP(t, db, "stale@example.com", now.Add(-time.Hour))
	createOTP(t, db, "older@example.com", now.Add(-time.Minute))
	live := createOTP(t, db, "fresh@example.com", now.Add(10*time.Minute))

	purged, err := SweepExpiredOTPs(db, now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, purged)

	var remaining []models.OTPCode
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, live.Email, remaining[0].Email)

	// A second sweep finds nothing left to purge.
	purged, err = SweepExpiredOTPs(db, now)
	require.NoError(t, err)
	assert.Zero(t, purged)
}

func TestOTPJanitorPurges(t *testing.T) {
	db := setupTestDB(t)
	createOTP(t, db, "stale@example.com", time.Now().Add(-time.Hour))

	StartOTPJanitor(db, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		var count int64
		if err := db.Model(&models.OTPCode{}).Count(&count).Error; err != nil {
			return false
		}
		return count == 0
	}, 2*time.Second, 10*time.Millisecond, "janitor never purged the expired code")
}
