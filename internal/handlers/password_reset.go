package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/littletreasures/internal/config"
	"github.com/example/littletreasures/internal/models"
	"github.com/example/littletreasures/internal/utils"
)

// PasswordResetHandler completes the OTP-driven password reset flow. Codes
// are issued and verified through the shared OTP endpoints.
type PasswordResetHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewPasswordResetHandler constructs a PasswordResetHandler.
func NewPasswordResetHandler(db *gorm.DB, cfg *config.Config) *PasswordResetHandler {
	return &PasswordResetHandler{db: db, cfg: cfg}
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// ResetPassword replaces the account password after the reset OTP has been
// verified, then consumes the OTP.
func (h *PasswordResetHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" || req.OTP == "" || req.NewPassword == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email, otp, and newPassword are required")
	}

	if len(req.NewPassword) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 6 characters")
	}

	var otpRecord models.OTPCode
	err := h.db.Where("email = ? AND code = ? AND purpose = ? AND verified = ? AND expires_at > ?",
		req.Email, req.OTP, models.OTPPurposePasswordReset, true, time.Now()).
		First(&otpRecord).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid or unverified OTP")
		}
		return err
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found with this email")
		}
		return err
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	if err := h.db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("password_hash", hash).Error; err != nil {
		return err
	}

	if err := h.db.Where("email = ? AND purpose = ?", req.Email, models.OTPPurposePasswordReset).
		Delete(&models.OTPCode{}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "password updated successfully",
	})
}
