package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/example/littletreasures/internal/database"
	"github.com/example/littletreasures/internal/models"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	require.NoError(t, database.Migrate(db), "failed to migrate schema")

	return db
}

func createProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()

	product := models.Product{
		Name:      name,
		Price:     price,
		Category:  "stationery",
		Stock:     stock,
		MainImage: "/uploads/" + name + ".png",
		SKU:       "LT-STATIONERY-" + name,
	}
	require.NoError(t, db.Create(&product).Error, "failed to create product")
	return product
}

func testCustomer() CustomerInfo {
	return CustomerInfo{
		Name:    "Asha Rao",
		Email:   "asha@example.com",
		Phone:   "9876543210",
		Address: "12 Lake View Road, Pune",
	}
}

func TestPlaceOrder(t *testing.T) {
	t.Run("successful placement", func(t *testing.T) {
		db := setupTestDB(t)
		pencils := createProduct(t, db, "Rainbow Pencil Set", 150, 25)
		backpack := createProduct(t, db, "Unicorn Backpack", 850, 12)

		order, err := PlaceOrder(db, PlaceOrderInput{
			Customer: testCustomer(),
			Lines: []OrderLine{
				{ProductID: pencils.ID.String(), Quantity: 2},
				{ProductID: backpack.ID.String(), Quantity: 1},
			},
			PaymentMethod: "cod",
		})

		require.NoError(t, err)
		assert.Equal(t, "LT000001", order.OrderNumber)
		assert.Equal(t, models.OrderStatusPending, order.Status)
		assert.Equal(t, 150*2+850*1.0, order.TotalAmount, "total must equal sum of line price*quantity")
		require.Len(t, order.Items, 2)
		assert.Equal(t, "Rainbow Pencil Set", order.Items[0].Name)
		assert.Equal(t, pencils.MainImage, order.Items[0].Image)

		var reloaded models.Product
		require.NoError(t, db.First(&reloaded, "id = ?", pencils.ID).Error)
		assert.Equal(t, 23, reloaded.Stock, "stock must be decremented by ordered quantity")
	})

	t.Run("missing product leaves stock untouched", func(t *testing.T) {
		db := setupTestDB(t)
		pencils := createProduct(t, db, "Rainbow Pencil Set", 150, 25)

		_, err := PlaceOrder(db, PlaceOrderInput{
			Customer: testCustomer(),
			Lines: []OrderLine{
				{ProductID: pencils.ID.String(), Quantity: 2},
				{ProductID: "8b36ac6e-0000-0000-0000-000000000000", Quantity: 1},
			},
		})

		assert.ErrorIs(t, err, ErrProductNotFound)

		var reloaded models.Product
		require.NoError(t, db.First(&reloaded, "id = ?", pencils.ID).Error)
		assert.Equal(t, 25, reloaded.Stock, "failed order must not mutate stock")

		var orderCount int64
		require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
		assert.Zero(t, orderCount, "failed order must not be persisted")
	})

	t.Run("insufficient stock fails the whole order", func(t *testing.T) {
		db := setupTestDB(t)
		pencils := createProduct(t, db, "Rainbow Pencil Set", 150, 25)
		stickers := createProduct(t, db, "Star Sticker Pack", 75, 1)

		_, err := PlaceOrder(db, PlaceOrderInput{
			Customer: testCustomer(),
			Lines: []OrderLine{
				{ProductID: pencils.ID.String(), Quantity: 3},
				{ProductID: stickers.ID.String(), Quantity: 2},
			},
		})

		assert.ErrorIs(t, err, ErrInsufficientStock)

		var reloaded models.Product
		require.NoError(t, db.First(&reloaded, "id = ?", pencils.ID).Error)
		assert.Equal(t, 25, reloaded.Stock, "no partial stock mutation on failure")
	})

	t.Run("two orders contending for the last unit", func(t *testing.T) {
		db := setupTestDB(t)
		lunchBag := createProduct(t, db, "Princess Lunch Bag", 450, 1)

		line := []OrderLine{{ProductID: lunchBag.ID.String(), Quantity: 1}}

		first, err := PlaceOrder(db, PlaceOrderInput{Customer: testCustomer(), Lines: line})
		require.NoError(t, err)
		assert.NotNil(t, first)

		_, err = PlaceOrder(db, PlaceOrderInput{Customer: testCustomer(), Lines: line})
		assert.ErrorIs(t, err, ErrInsufficientStock)

		var reloaded models.Product
		require.NoError(t, db.First(&reloaded, "id = ?", lunchBag.ID).Error)
		assert.Equal(t, 0, reloaded.Stock, "stock must never go negative")
	})

	t.Run("line items are immune to later price edits", func(t *testing.T) {
		db := setupTestDB(t)
		pencils := createProduct(t, db, "Rainbow Pencil Set", 150, 25)

		order, err := PlaceOrder(db, PlaceOrderInput{
			Customer: testCustomer(),
			Lines:    []OrderLine{{ProductID: pencils.ID.String(), Quantity: 2}},
		})
		require.NoError(t, err)

		require.NoError(t, db.Model(&models.Product{}).
			Where("id = ?", pencils.ID).
			Update("price", 999).Error)

		var reloaded models.Order
		require.NoError(t, db.Preload("Items").First(&reloaded, "id = ?", order.ID).Error)
		require.Len(t, reloaded.Items, 1)
		assert.Equal(t, 150.0, reloaded.Items[0].Price, "line price is a snapshot")
		assert.Equal(t, 300.0, reloaded.TotalAmount, "total is a snapshot")
	})

	t.Run("empty and invalid carts", func(t *testing.T) {
		db := setupTestDB(t)
		pencils := createProduct(t, db, "Rainbow Pencil Set", 150, 25)

		_, err := PlaceOrder(db, PlaceOrderInput{Customer: testCustomer()})
		assert.ErrorIs(t, err, ErrEmptyOrder)

		_, err = PlaceOrder(db, PlaceOrderInput{
			Customer: testCustomer(),
			Lines:    []OrderLine{{ProductID: pencils.ID.String(), Quantity: 0}},
		})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("order numbers are unique and sequential", func(t *testing.T) {
		db := setupTestDB(t)
		pencils := createProduct(t, db, "Rainbow Pencil Set", 150, 25)

		line := []OrderLine{{ProductID: pencils.ID.String(), Quantity: 1}}

		first, err := PlaceOrder(db, PlaceOrderInput{Customer: testCustomer(), Lines: line})
		require.NoError(t, err)
		second, err := PlaceOrder(db, PlaceOrderInput{Customer: testCustomer(), Lines: line})
		require.NoError(t, err)

		assert.Equal(t, "LT000001", first.OrderNumber)
		assert.Equal(t, "LT000002", second.OrderNumber)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	place := func(t *testing.T, db *gorm.DB, product models.Product, qty int) *models.Order {
		t.Helper()
		order, err := PlaceOrder(db, PlaceOrderInput{
			Customer: testCustomer(),
			Lines:    []OrderLine{{ProductID: product.ID.String(), Quantity: qty}},
		})
		require.NoError(t, err)
		return order
	}

	t.Run("valid forward transition", func(t *testing.T) {
		db := setupTestDB(t)
		pencils := createProduct(t, db, "Rainbow Pencil Set", 150, 25)
		order := place(t, db, pencils, 1)

		updated, err := UpdateOrderStatus(db, order.ID, models.OrderStatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusConfirmed, updated.Status)
	})

	t.Run("skipping states is rejected", func(t *testing.T) {
		db := setupTestDB(t)
		pencils := createProduct(t, db, "Rainbow Pencil Set", 150, 25)
		order := place(t, db, pencils, 1)

		_, err := UpdateOrderStatus(db, order.ID, models.OrderStatusShipped)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("cancellation restocks line items", func(t *testing.T) {
		db := setupTestDB(t)
		pencils := createProduct(t, db, "Rainbow Pencil Set", 150, 25)
		order := place(t, db, pencils, 4)

		var afterOrder models.Product
		require.NoError(t, db.First(&afterOrder, "id = ?", pencils.ID).Error)
		require.Equal(t, 21, afterOrder.Stock)

		_, err := UpdateOrderStatus(db, order.ID, models.OrderStatusCancelled)
		require.NoError(t, err)

		var restocked models.Product
		require.NoError(t, db.First(&restocked, "id = ?", pencils.ID).Error)
		assert.Equal(t, 25, restocked.Stock, "cancellation must return quantities to stock")
	})

	t.Run("cancelled orders are terminal", func(t *testing.T) {
		db := setupTestDB(t)
		pencils := createProduct(t, db, "Rainbow Pencil Set", 150, 25)
		order := place(t, db, pencils, 1)

		_, err := UpdateOrderStatus(db, order.ID, models.OrderStatusCancelled)
		require.NoError(t, err)

		_, err = UpdateOrderStatus(db, order.ID, models.OrderStatusConfirmed)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("unknown order", func(t *testing.T) {
		db := setupTestDB(t)

		_, err := UpdateOrderStatus(db, uuid.New(), models.OrderStatusConfirmed)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}
