package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/littletreasures/internal/config"
	"github.com/example/littletreasures/internal/models"
	"github.com/example/littletreasures/internal/services"
	"github.com/example/littletreasures/internal/utils"
)

// OTPHandler manages one-time-code issuance and verification.
type OTPHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer services.Mailer
}

// NewOTPHandler constructs an OTPHandler.
func NewOTPHandler(db *gorm.DB, cfg *config.Config, mailer services.Mailer) *OTPHandler {
	return &OTPHandler{db: db, cfg: cfg, mailer: mailer}
}

type sendOTPRequest struct {
	Email string `json:"email"`
	Type  string `json:"type"`
}

// SendOTP issues a fresh code for registration, login, or password reset.
// Prior codes for the same email and purpose are discarded first. The code
// is persisted even when the email send fails, so a retried send can reuse
// the flow.
func (h *OTPHandler) SendOTP(c *fiber.Ctx) error {
	var req sendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" || !models.ValidOTPPurpose(req.Type) {
		return fiber.NewError(fiber.StatusBadRequest, "email and type are required")
	}

	var existing models.User
	err := h.db.Where("email = ?", req.Email).First(&existing).Error
	userExists := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if req.Type == models.OTPPurposeRegistration && userExists {
		return fiber.NewError(fiber.StatusBadRequest, "user already exists with this email")
	}
	if req.Type != models.OTPPurposeRegistration && !userExists {
		return fiber.NewError(fiber.StatusNotFound, "user not found with this email")
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate OTP")
	}

	if err := h.db.Where("email = ? AND purpose = ?", req.Email, req.Type).
		Delete(&models.OTPCode{}).Error; err != nil {
		return err
	}

	record := models.OTPCode{
		Email:     req.Email,
		Code:      code,
		Purpose:   req.Type,
		ExpiresAt: time.Now().Add(h.cfg.OTPExpires),
	}
	if err := h.db.Create(&record).Error; err != nil {
		return err
	}

	if err := h.mailer.SendOTP(req.Email, code, req.Type); err != nil {
		log.Printf("otp email send failed for %s: %v", req.Email, err)
		return fiber.NewError(fiber.StatusServiceUnavailable, "failed to send OTP email")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP sent successfully to your email",
		"email":   req.Email,
	})
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
	Type  string `json:"type"`
}

// VerifyOTP matches an unconsumed, non-expired code and marks it verified.
// A wrong code, wrong purpose, already-verified record, or expired record
// are all reported identically.
func (h *OTPHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" || req.OTP == "" || !models.ValidOTPPurpose(req.Type) {
		return fiber.NewError(fiber.StatusBadRequest, "email, otp, and type are required")
	}

	var record models.OTPCode
	err := h.db.Where("email = ? AND code = ? AND purpose = ? AND verified = ? AND expires_at > ?",
		req.Email, req.OTP, req.Type, false, time.Now()).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid or expired OTP")
		}
		return err
	}

	record.Verified = true
	if err := h.db.Save(&record).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "OTP verified successfully",
		"verified": true,
	})
}
