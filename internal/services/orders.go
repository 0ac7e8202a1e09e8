package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/littletreasures/internal/models"
)

// Order workflow failures, translated to HTTP statuses at the handler
// boundary.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyOrder        = errors.New("order has no items")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// CustomerInfo is the contact snapshot captured on every order.
type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// OrderLine is one requested cart line.
type OrderLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrderInput carries everything needed to place an order.
type PlaceOrderInput struct {
	Customer      CustomerInfo
	Lines         []OrderLine
	PaymentMethod string
	Notes         string
	UserID        *uuid.UUID
}

// PlaceOrder validates the cart against live stock, snapshots each line,
// decrements stock, and persists the order inside a single transaction:
// either the order exists with stock decremented for every line, or nothing
// changed. The decrement is conditional and relative
// (stock = stock - n where stock >= n), which is what arbitrates two
// simultaneous checkouts on the same product.
func PlaceOrder(db *gorm.DB, in PlaceOrderInput) (*models.Order, error) {
	if len(in.Lines) == 0 {
		return nil, ErrEmptyOrder
	}

	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		var total float64
		items := make([]models.OrderItem, 0, len(in.Lines))

		for _, line := range in.Lines {
			if line.Quantity <= 0 {
				return ErrInvalidQuantity
			}

			productID, err := uuid.Parse(line.ProductID)
			if err != nil {
				return ErrProductNotFound
			}

			var product models.Product
			if err := tx.First(&product, "id = ?", productID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}

			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", product.ID, line.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientStock
			}

			id := product.ID
			items = append(items, models.OrderItem{
				ProductID: &id,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  line.Quantity,
				Image:     product.MainImage,
			})
			total += product.Price * float64(line.Quantity)
		}

		seq, err := NextSequence(tx, CounterOrders)
		if err != nil {
			return err
		}

		paymentMethod := in.PaymentMethod
		if paymentMethod == "" {
			paymentMethod = "cod"
		}

		order = models.Order{
			OrderNumber:     FormatOrderNumber(seq),
			UserID:          in.UserID,
			CustomerName:    in.Customer.Name,
			CustomerEmail:   in.Customer.Email,
			CustomerPhone:   in.Customer.Phone,
			CustomerAddress: in.Customer.Address,
			Items:           items,
			TotalAmount:     total,
			PaymentMethod:   paymentMethod,
			PaymentStatus:   models.PaymentStatusPending,
			Status:          models.OrderStatusPending,
			Notes:           in.Notes,
		}

		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// UpdateOrderStatus moves an order along its lifecycle. Cancelling a
// non-terminal order returns every line's quantity to stock in the same
// transaction, keeping stock consistent with outstanding orders.
func UpdateOrderStatus(db *gorm.DB, orderID uuid.UUID, status string) (*models.Order, error) {
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if !models.ValidOrderStatus(status) || !models.CanTransition(order.Status, status) {
			return ErrInvalidTransition
		}

		if status == models.OrderStatusCancelled {
			for _, item := range order.Items {
				if item.ProductID == nil {
					continue
				}
				if err := tx.Model(&models.Product{}).
					Where("id = ?", *item.ProductID).
					UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
					return err
				}
			}
		}

		order.Status = status
		return tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}
