package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/example/littletreasures/internal/config"
	"github.com/example/littletreasures/internal/models"
	"github.com/example/littletreasures/internal/services"
)

// ProductHandler manages catalog CRUD and listing.
type ProductHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB, cfg *config.Config) *ProductHandler {
	return &ProductHandler{db: db, cfg: cfg}
}

// ListProducts returns products with optional filters: category equality,
// featured flag, free-text search over name/description/tags, sort order,
// and a result limit.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	query := h.db.Model(&models.Product{})

	if category := c.Query("category"); category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}

	if c.Query("featured") == "true" {
		query = query.Where("featured = ?", true)
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		// CAST(tags AS TEXT) matches against the array literal, which keeps
		// the predicate portable across the postgres and sqlite drivers.
		q := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(CAST(tags AS TEXT)) LIKE ?",
			q, q, q,
		)
	}

	switch c.Query("sort") {
	case "price_low":
		query = query.Order("price asc")
	case "price_high":
		query = query.Order("price desc")
	case "name":
		query = query.Order("name asc")
	default:
		query = query.Order("created_at desc")
	}

	if limit := c.Query("limit"); limit != "" {
		if parsed, err := strconv.Atoi(limit); err == nil && parsed > 0 {
			query = query.Limit(parsed)
		}
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(products)
}

// GetProduct loads a single product.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "product": product})
}

// productForm reads the shared multipart fields of create/update requests.
type productForm struct {
	Name        string
	Price       float64
	Category    string
	Stock       int
	Description string
	Tags        []string
	Featured    bool
}

func parseProductForm(c *fiber.Ctx) (productForm, error) {
	form := productForm{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Category:    strings.TrimSpace(c.FormValue("category")),
		Description: c.FormValue("description"),
		Featured:    c.FormValue("featured") == "true",
	}

	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil || price <= 0 {
		return form, fiber.NewError(fiber.StatusBadRequest, "price must be a positive number")
	}
	form.Price = price

	stock, err := strconv.Atoi(c.FormValue("stock"))
	if err != nil || stock < 0 {
		return form, fiber.NewError(fiber.StatusBadRequest, "stock must be a non-negative integer")
	}
	form.Stock = stock

	if tags := c.FormValue("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if trimmed := strings.TrimSpace(tag); trimmed != "" {
				form.Tags = append(form.Tags, trimmed)
			}
		}
	}

	if form.Name == "" || form.Category == "" {
		return form, fiber.NewError(fiber.StatusBadRequest, "name and category are required")
	}

	return form, nil
}

func (h *ProductHandler) formImages(c *fiber.Ctx) ([]string, error) {
	multipartForm, err := c.MultipartForm()
	if err != nil {
		return nil, nil // no files attached
	}
	return saveUploadedImages(c, h.cfg.UploadDir, multipartForm.File["images"], maxProductImages)
}

// CreateProduct adds a catalog entry with up to five uploaded images and a
// freshly assigned SKU.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	form, err := parseProductForm(c)
	if err != nil {
		return err
	}

	imageURLs, err := h.formImages(c)
	if err != nil {
		return err
	}

	var product models.Product
	err = h.db.Transaction(func(tx *gorm.DB) error {
		seq, err := services.NextSequence(tx, services.CounterProducts)
		if err != nil {
			return err
		}

		product = models.Product{
			Name:        form.Name,
			Price:       form.Price,
			Category:    form.Category,
			Stock:       form.Stock,
			Description: form.Description,
			Images:      pq.StringArray(imageURLs),
			Featured:    form.Featured,
			Tags:        pq.StringArray(form.Tags),
			SKU:         services.FormatSKU(form.Category, seq),
		}
		if len(imageURLs) > 0 {
			product.MainImage = imageURLs[0]
		}

		return tx.Create(&product).Error
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Product added successfully",
		"product": product,
	})
}

// UpdateProduct edits a catalog entry. The SKU is never reassigned.
// removeImages carries a JSON array of image URLs to drop; new uploads are
// appended and the first remaining image becomes the main image.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	form, err := parseProductForm(c)
	if err != nil {
		return err
	}

	images := append([]string(nil), product.Images...)

	if removeRaw := c.FormValue("removeImages"); removeRaw != "" {
		var toRemove []string
		if err := json.Unmarshal([]byte(removeRaw), &toRemove); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "removeImages must be a JSON array")
		}
		removed := make(map[string]bool, len(toRemove))
		for _, url := range toRemove {
			removed[url] = true
		}
		kept := images[:0]
		for _, url := range images {
			if !removed[url] {
				kept = append(kept, url)
			}
		}
		images = kept
	}

	newImages, err := h.formImages(c)
	if err != nil {
		return err
	}
	images = append(images, newImages...)

	mainImage := ""
	if len(images) > 0 {
		mainImage = images[0]
	}

	updates := map[string]interface{}{
		"name":        form.Name,
		"price":       form.Price,
		"category":    form.Category,
		"stock":       form.Stock,
		"description": form.Description,
		"images":      pq.StringArray(images),
		"main_image":  mainImage,
		"featured":    form.Featured,
	}
	if len(form.Tags) > 0 {
		updates["tags"] = pq.StringArray(form.Tags)
	}

	if err := h.db.Model(&product).Updates(updates).Error; err != nil {
		return err
	}

	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProduct removes a catalog entry.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	res := h.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product deleted successfully",
	})
}
