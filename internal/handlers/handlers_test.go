package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/example/littletreasures/internal/config"
	"github.com/example/littletreasures/internal/database"
	"github.com/example/littletreasures/internal/middleware"
	"github.com/example/littletreasures/internal/models"
	"github.com/example/littletreasures/internal/routes"
	"github.com/example/littletreasures/internal/utils"
)

// stubMailer records the last OTP instead of talking to SMTP.
type stubMailer struct {
	lastEmail   string
	lastCode    string
	lastPurpose string
	err         error
}

func (m *stubMailer) SendOTP(email, code, purpose string) error {
	if m.err != nil {
		return m.err
	}
	m.lastEmail = email
	m.lastCode = code
	m.lastPurpose = purpose
	return nil
}

var errMailDown = errors.New("smtp unreachable")

// newTestApp wires the full route table over an in-memory database.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config, *stubMailer) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")
	require.NoError(t, database.Migrate(db), "failed to migrate schema")

	cfg := &config.Config{
		JWTSecret:    "test-secret",
		TokenExpires: time.Hour,
		OTPExpires:   10 * time.Minute,
		UploadDir:    t.TempDir(),
	}

	mailer := &stubMailer{}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	routes.Register(app, db, cfg, mailer)

	return app, db, cfg, mailer
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]interface{}) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "request failed")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp, parsed
}

func seedUser(t *testing.T, db *gorm.DB, email, password string) models.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	user := models.User{
		Name:          "Asha Rao",
		Email:         email,
		PasswordHash:  hash,
		Role:          "customer",
		IsActive:      true,
		EmailVerified: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedAdmin(t *testing.T, db *gorm.DB, email, password string) models.Admin {
	t.Helper()

	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	admin := models.Admin{
		Username:     "ops",
		Email:        email,
		PasswordHash: hash,
		Role:         "admin",
		Permissions:  models.DefaultAdminPermissions,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&admin).Error)
	return admin
}

func userToken(t *testing.T, cfg *config.Config, user models.User) string {
	t.Helper()

	token, err := utils.GenerateToken(cfg.JWTSecret, user.ID, user.Role, utils.PrincipalUser, cfg.TokenExpires)
	require.NoError(t, err)
	return token
}

func adminToken(t *testing.T, cfg *config.Config, admin models.Admin) string {
	t.Helper()

	token, err := utils.GenerateToken(cfg.JWTSecret, admin.ID, admin.Role, utils.PrincipalAdmin, cfg.TokenExpires)
	require.NoError(t, err)
	return token
}

func seedOTP(t *testing.T, db *gorm.DB, email, code, purpose string, verified bool) models.OTPCode {
	t.Helper()
	return seedOTPExpiring(t, db, email, code, purpose, verified, time.Now().Add(10*time.Minute))
}

func seedOTPExpiring(t *testing.T, db *gorm.DB, email, code, purpose string, verified bool, expiresAt time.Time) models.OTPCode {
	t.Helper()

	record := models.OTPCode{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		Verified:  verified,
		ExpiresAt: expiresAt,
	}
	require.NoError(t, db.Create(&record).Error)
	return record
}

func seedProduct(t *testing.T, db *gorm.DB, name, category string, price float64, stock int, featured bool) models.Product {
	t.Helper()

	product := models.Product{
		Name:     name,
		Price:    price,
		Category: category,
		Stock:    stock,
		Featured: featured,
		SKU:      "LT-" + category + "-" + name,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}
