package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/littletreasures/internal/config"
	"github.com/example/littletreasures/internal/models"
	"github.com/example/littletreasures/internal/utils"
)

const (
	userContextKey  = "currentUser"
	adminContextKey = "currentAdmin"
)

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
	}

	return parts[1], nil
}

// CustomerAuth validates customer bearer tokens. Beyond signature and
// expiry, it re-checks on every request that the account still exists, is
// active, and has a verified email, so deactivating an account invalidates
// tokens that are still cryptographically valid.
func CustomerAuth(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return err
		}

		identity, err := utils.ParseToken(cfg.JWTSecret, token)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid token")
		}

		if identity.Principal != utils.PrincipalUser || identity.Role != "customer" {
			return fiber.NewError(fiber.StatusForbidden, "customer access required")
		}

		var user models.User
		if err := db.First(&user, "id = ?", identity.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token or user inactive")
		}

		if !user.IsActive || !user.EmailVerified {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token or user inactive")
		}

		c.Locals(userContextKey, &user)
		return c.Next()
	}
}

// AdminAuth validates admin bearer tokens with a live account check.
func AdminAuth(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return err
		}

		identity, err := utils.ParseToken(cfg.JWTSecret, token)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid admin token")
		}

		if identity.Principal != utils.PrincipalAdmin || identity.Role != "admin" {
			return fiber.NewError(fiber.StatusForbidden, "admin access required")
		}

		var admin models.Admin
		if err := db.First(&admin, "id = ?", identity.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid admin token")
		}

		if !admin.IsActive {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid admin token")
		}

		c.Locals(adminContextKey, &admin)
		return c.Next()
	}
}

// GetCurrentUser extracts the authenticated customer from context.
func GetCurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(userContextKey).(*models.User)
	return user, ok
}

// GetCurrentAdmin extracts the authenticated admin from context.
func GetCurrentAdmin(c *fiber.Ctx) (*models.Admin, bool) {
	admin, ok := c.Locals(adminContextKey).(*models.Admin)
	return admin, ok
}
