package handlers

import (
	"errors"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/littletreasures/internal/config"
	"github.com/example/littletreasures/internal/middleware"
	"github.com/example/littletreasures/internal/models"
)

// ProfileHandler manages the authenticated customer's profile, addresses,
// wishlist, and order history.
type ProfileHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(db *gorm.DB, cfg *config.Config) *ProfileHandler {
	return &ProfileHandler{db: db, cfg: cfg}
}

// GetProfile returns the current user with addresses and wishlist loaded.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	current, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.Preload("Addresses").Preload("Wishlist").Preload("Orders").
		First(&user, "id = ?", current.ID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "user": user})
}

// UpdateProfile edits contact fields and optionally a multipart avatar
// image.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	current, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	updates := map[string]interface{}{}
	if name := c.FormValue("name"); name != "" {
		updates["name"] = name
	}
	if phone := c.FormValue("phone"); phone != "" {
		updates["phone"] = phone
	}
	if address := c.FormValue("address"); address != "" {
		updates["address"] = address
	}
	if dob := c.FormValue("dateOfBirth"); dob != "" {
		parsed, err := time.Parse("2006-01-02", dob)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "dateOfBirth must be YYYY-MM-DD")
		}
		updates["date_of_birth"] = parsed
	}
	if gender := c.FormValue("gender"); gender != "" {
		switch gender {
		case "male", "female", "other":
			updates["gender"] = gender
		default:
			return fiber.NewError(fiber.StatusBadRequest, "invalid gender")
		}
	}

	if file, err := c.FormFile("avatar"); err == nil && file != nil {
		urls, err := saveUploadedImages(c, h.cfg.UploadDir, []*multipart.FileHeader{file}, 1)
		if err != nil {
			return err
		}
		if len(urls) > 0 {
			updates["avatar"] = urls[0]
		}
	}

	if len(updates) > 0 {
		if err := h.db.Model(&models.User{}).Where("id = ?", current.ID).Updates(updates).Error; err != nil {
			return err
		}
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", current.ID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}

type addressRequest struct {
	Type      string `json:"type"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	Country   string `json:"country"`
	IsDefault bool   `json:"isDefault"`
}

// AddAddress appends a saved address; marking it default clears the flag on
// the others.
func (h *ProfileHandler) AddAddress(c *fiber.Ctx) error {
	current, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req addressRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	address := models.UserAddress{
		UserID:    current.ID,
		Type:      req.Type,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		Pincode:   req.Pincode,
		Country:   req.Country,
		IsDefault: req.IsDefault,
	}
	if address.Type == "" {
		address.Type = "home"
	}
	if address.Country == "" {
		address.Country = "India"
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := tx.Model(&models.UserAddress{}).
				Where("user_id = ?", current.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		return err
	}

	var addresses []models.UserAddress
	if err := h.db.Where("user_id = ?", current.ID).Order("created_at asc").Find(&addresses).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Address added successfully",
		"addresses": addresses,
	})
}

// AddToWishlist links a product to the user's wishlist; duplicates are
// reported without error.
func (h *ProfileHandler) AddToWishlist(c *fiber.Ctx) error {
	current, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	var existing []models.Product
	if err := h.db.Model(current).Association("Wishlist").Find(&existing, "id = ?", productID); err != nil {
		return err
	}
	if len(existing) > 0 {
		return c.JSON(fiber.Map{"success": true, "message": "Product already in wishlist"})
	}

	if err := h.db.Model(current).Association("Wishlist").Append(&product); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Product added to wishlist"})
}

// RemoveFromWishlist unlinks a product from the user's wishlist.
func (h *ProfileHandler) RemoveFromWishlist(c *fiber.Ctx) error {
	current, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	if err := h.db.Model(current).Association("Wishlist").
		Delete(&models.Product{BaseModel: models.BaseModel{ID: productID}}); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Product removed from wishlist"})
}

// ListOrders returns the user's order history: orders linked by user id
// plus guest orders placed with the same email.
func (h *ProfileHandler) ListOrders(c *fiber.Ctx) error {
	current, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var orders []models.Order
	if err := h.db.Preload("Items").
		Where("user_id = ? OR customer_email = ?", current.ID, current.Email).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "orders": orders})
}
