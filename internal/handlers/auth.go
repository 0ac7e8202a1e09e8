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

// Lockout thresholds. Admin accounts lock sooner and for a shorter window.
const (
	userMaxAttempts  = 5
	userLockWindow   = 30 * time.Minute
	adminMaxAttempts = 3
	adminLockWindow  = 15 * time.Minute
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	OTP      string `json:"otp"`
}

// Register creates a new customer account. The email must have been proven
// with a verified registration OTP; the unique index on email is the
// arbiter when two registrations race on the same verified code.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" || req.Email == "" || req.Password == "" || req.OTP == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	if len(req.Password) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 6 characters")
	}

	var otpRecord models.OTPCode
	err := h.db.Where("email = ? AND code = ? AND purpose = ? AND verified = ? AND expires_at > ?",
		req.Email, req.OTP, models.OTPPurposeRegistration, true, time.Now()).
		First(&otpRecord).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid or unverified OTP")
		}
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	user := models.User{
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  passwordHash,
		Phone:         req.Phone,
		Address:       req.Address,
		Role:          "customer",
		IsActive:      true,
		EmailVerified: true,
	}

	if err := h.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusBadRequest, "user already exists with this email")
		}
		return err
	}

	if err := h.db.Where("email = ? AND purpose = ?", req.Email, models.OTPPurposeRegistration).
		Delete(&models.OTPCode{}).Error; err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, user.Role, utils.PrincipalUser, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"token":   token,
		"user": fiber.Map{
			"id":             user.ID,
			"name":           user.Name,
			"email":          user.Email,
			"role":           user.Role,
			"email_verified": user.EmailVerified,
		},
	})
}

type loginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	OTP       string `json:"otp"`
	LoginType string `json:"loginType"` // password|otp
}

// Login authenticates a customer by password or by a verified login OTP.
// A locked account is rejected before any credential comparison.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.db.Where("email = ? AND role = ?", req.Email, "customer").First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	if !user.IsActive || !user.EmailVerified {
		return fiber.NewError(fiber.StatusUnauthorized, "account not verified or inactive")
	}

	now := time.Now()
	if user.Locked(now) {
		return fiber.NewError(fiber.StatusUnauthorized, "account temporarily locked, try again later")
	}

	var valid bool
	if req.LoginType == "otp" {
		var otpRecord models.OTPCode
		err := h.db.Where("email = ? AND code = ? AND purpose = ? AND verified = ? AND expires_at > ?",
			req.Email, req.OTP, models.OTPPurposeLogin, true, now).
			First(&otpRecord).Error
		if err == nil {
			valid = true
			if err := h.db.Where("email = ? AND purpose = ?", req.Email, models.OTPPurposeLogin).
				Delete(&models.OTPCode{}).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	} else {
		valid = utils.CheckPassword(user.PasswordHash, req.Password)
	}

	if !valid {
		updates := map[string]interface{}{
			"login_attempts": gorm.Expr("login_attempts + 1"),
		}
		if user.LoginAttempts+1 >= userMaxAttempts {
			updates["lock_until"] = now.Add(userLockWindow)
		}
		if err := h.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			return err
		}
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	if err := h.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"login_attempts": 0,
		"lock_until":     nil,
		"last_login":     now,
	}).Error; err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, user.Role, utils.PrincipalUser, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user": fiber.Map{
			"id":             user.ID,
			"name":           user.Name,
			"email":          user.Email,
			"role":           user.Role,
			"phone":          user.Phone,
			"address":        user.Address,
			"email_verified": user.EmailVerified,
		},
	})
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLogin authenticates an admin account with the stricter lockout
// policy.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var admin models.Admin
	if err := h.db.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid admin credentials")
		}
		return err
	}

	if !admin.IsActive {
		return fiber.NewError(fiber.StatusBadRequest, "invalid admin credentials")
	}

	now := time.Now()
	if admin.Locked(now) {
		return fiber.NewError(fiber.StatusUnauthorized, "account temporarily locked, try again later")
	}

	if !utils.CheckPassword(admin.PasswordHash, req.Password) {
		updates := map[string]interface{}{
			"login_attempts": gorm.Expr("login_attempts + 1"),
		}
		if admin.LoginAttempts+1 >= adminMaxAttempts {
			updates["lock_until"] = now.Add(adminLockWindow)
		}
		if err := h.db.Model(&models.Admin{}).Where("id = ?", admin.ID).Updates(updates).Error; err != nil {
			return err
		}
		return fiber.NewError(fiber.StatusBadRequest, "invalid admin credentials")
	}

	if err := h.db.Model(&models.Admin{}).Where("id = ?", admin.ID).Updates(map[string]interface{}{
		"login_attempts": 0,
		"lock_until":     nil,
		"last_login":     now,
	}).Error; err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, admin.ID, admin.Role, utils.PrincipalAdmin, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Admin login successful",
		"token":   token,
		"admin": fiber.Map{
			"id":          admin.ID,
			"username":    admin.Username,
			"email":       admin.Email,
			"role":        admin.Role,
			"permissions": admin.Permissions,
		},
	})
}
