package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/littletreasures/internal/models"
	"github.com/example/littletreasures/internal/services"
	"github.com/example/littletreasures/internal/utils"
)

// OrderHandler manages order placement and admin order management.
type OrderHandler struct {
	db *gorm.DB
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db}
}

type createOrderRequest struct {
	CustomerInfo  services.CustomerInfo `json:"customerInfo"`
	Items         []services.OrderLine  `json:"items"`
	PaymentMethod string                `json:"paymentMethod"`
	Notes         string                `json:"notes"`
	UserID        string                `json:"userId"`
}

// CreateOrder places an order. Guests may order; a supplied userId links
// the order to that account.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.CustomerInfo.Name == "" || req.CustomerInfo.Email == "" ||
		req.CustomerInfo.Phone == "" || req.CustomerInfo.Address == "" {
		return fiber.NewError(fiber.StatusBadRequest, "customer name, email, phone, and address are required")
	}

	input := services.PlaceOrderInput{
		Customer:      req.CustomerInfo,
		Lines:         req.Items,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}

	if req.UserID != "" {
		if id, err := uuid.Parse(req.UserID); err == nil {
			input.UserID = &id
		}
	}

	order, err := services.PlaceOrder(h.db, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		case errors.Is(err, services.ErrInsufficientStock):
			return fiber.NewError(fiber.StatusBadRequest, "insufficient stock")
		case errors.Is(err, services.ErrEmptyOrder), errors.Is(err, services.ErrInvalidQuantity):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Order created successfully!",
		"order":   order,
	})
}

// ListOrders returns all orders for admins, filtered by status and paginated.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if status := c.Query("status"); status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").Preload("User").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"orders":     orders,
		"pagination": pg.Meta(total),
	})
}

// GetOrder loads a single order with its line items.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").Preload("User").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "order": order})
}

type updateOrderRequest struct {
	Status         string `json:"status"`
	PaymentStatus  string `json:"paymentStatus"`
	PaymentMethod  string `json:"paymentMethod"`
	TrackingNumber string `json:"trackingNumber"`
}

// UpdateOrder applies admin edits: fulfillment status (with transition
// enforcement and restock on cancellation), payment fields, and tracking.
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Status != "" {
		if _, err := services.UpdateOrderStatus(h.db, id, req.Status); err != nil {
			switch {
			case errors.Is(err, services.ErrOrderNotFound):
				return fiber.NewError(fiber.StatusNotFound, "order not found")
			case errors.Is(err, services.ErrInvalidTransition):
				return fiber.NewError(fiber.StatusBadRequest, "invalid status transition")
			}
			return err
		}
	}

	updates := map[string]interface{}{}
	if req.PaymentStatus != "" {
		switch req.PaymentStatus {
		case models.PaymentStatusPending, models.PaymentStatusPaid, models.PaymentStatusFailed:
			updates["payment_status"] = req.PaymentStatus
		default:
			return fiber.NewError(fiber.StatusBadRequest, "invalid payment status")
		}
	}
	if req.PaymentMethod != "" {
		updates["payment_method"] = req.PaymentMethod
	}
	if req.TrackingNumber != "" {
		updates["tracking_number"] = req.TrackingNumber
	}

	if len(updates) > 0 {
		res := h.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
	}

	var order models.Order
	if err := h.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order updated successfully",
		"order":   order,
	})
}
