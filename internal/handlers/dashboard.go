package handlers

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/littletreasures/internal/models"
	"github.com/example/littletreasures/internal/utils"
)

const lowStockThreshold = 5

// DashboardHandler serves admin aggregation endpoints. Everything here is a
// read-only projection over persisted orders, products, and users.
type DashboardHandler struct {
	db *gorm.DB
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// Stats returns the dashboard aggregate: totals, revenue, monthly revenue
// for the last year, low-stock products, recent orders, and top sellers.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	var totalOrders, totalProducts, totalUsers, pendingOrders int64
	if err := h.db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusPending).
		Count(&pendingOrders).Error; err != nil {
		return err
	}

	var totalRevenue float64
	if err := h.db.Model(&models.Order{}).
		Where("status != ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return err
	}

	monthlyRevenue, err := h.bucketSales("monthly", time.Now().AddDate(-1, 0, 0))
	if err != nil {
		return err
	}

	var lowStockProducts []models.Product
	if err := h.db.Where("stock <= ?", lowStockThreshold).Find(&lowStockProducts).Error; err != nil {
		return err
	}

	var recentOrders []models.Order
	if err := h.db.Preload("Items").Preload("User").
		Order("created_at desc").
		Limit(10).
		Find(&recentOrders).Error; err != nil {
		return err
	}

	topProducts, err := h.topProducts(5)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"totalOrders":      totalOrders,
		"totalProducts":    totalProducts,
		"totalUsers":       totalUsers,
		"pendingOrders":    pendingOrders,
		"totalRevenue":     totalRevenue,
		"lowStockCount":    len(lowStockProducts),
		"lowStockProducts": lowStockProducts,
		"recentOrders":     recentOrders,
		"monthlyRevenue":   monthlyRevenue,
		"topProducts":      topProducts,
	})
}

// topProductRow is one best-seller entry: units and revenue summed across
// all orders' line items.
type topProductRow struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	TotalSold int64     `json:"total_sold"`
	Revenue   float64   `json:"revenue"`
}

func (h *DashboardHandler) topProducts(limit int) ([]topProductRow, error) {
	var rows []topProductRow
	err := h.db.Model(&models.OrderItem{}).
		Select("product_id, MAX(name) as name, SUM(quantity) as total_sold, SUM(price * quantity) as revenue").
		Where("product_id IS NOT NULL").
		Group("product_id").
		Order("total_sold desc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// salesBucket is one time bucket of the sales analytics projection.
type salesBucket struct {
	Period        string  `json:"period"`
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalOrders   int64   `json:"totalOrders"`
	AvgOrderValue float64 `json:"avgOrderValue"`
}

// bucketSales folds non-cancelled orders since the horizon into calendar
// buckets. Bucketing happens in Go over a single scan, which keeps the
// query portable across drivers.
func (h *DashboardHandler) bucketSales(period string, since time.Time) ([]salesBucket, error) {
	type orderRow struct {
		CreatedAt   time.Time
		TotalAmount float64
	}

	var rows []orderRow
	if err := h.db.Model(&models.Order{}).
		Select("created_at, total_amount").
		Where("status != ? AND created_at >= ?", models.OrderStatusCancelled, since).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[string]*salesBucket)
	for _, row := range rows {
		key := bucketKey(period, row.CreatedAt)
		bucket, ok := totals[key]
		if !ok {
			bucket = &salesBucket{Period: key}
			totals[key] = bucket
		}
		bucket.TotalRevenue += row.TotalAmount
		bucket.TotalOrders++
	}

	buckets := make([]salesBucket, 0, len(totals))
	for _, bucket := range totals {
		bucket.AvgOrderValue = bucket.TotalRevenue / float64(bucket.TotalOrders)
		buckets = append(buckets, *bucket)
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Period < buckets[j].Period })
	return buckets, nil
}

func bucketKey(period string, t time.Time) string {
	switch period {
	case "daily":
		return t.Format("2006-01-02")
	case "weekly":
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case "monthly":
		return t.Format("2006-01")
	default:
		return t.Format("2006")
	}
}

// salesHorizon returns the fixed lookback window for each period.
func salesHorizon(period string, now time.Time) time.Time {
	switch period {
	case "daily":
		return now.AddDate(0, 0, -30)
	case "weekly":
		return now.AddDate(0, 0, -90)
	case "monthly":
		return now.AddDate(0, 0, -365)
	default:
		return now.AddDate(0, 0, -1825)
	}
}

// SalesAnalytics returns revenue/order-count buckets for the requested
// period: daily, weekly, monthly, or yearly.
func (h *DashboardHandler) SalesAnalytics(c *fiber.Ctx) error {
	period := c.Query("period", "yearly")

	buckets, err := h.bucketSales(period, salesHorizon(period, time.Now()))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"salesData": buckets})
}

// ListUsers returns registered customers with search, status filter, and
// pagination, never exposing credential hashes.
func (h *DashboardHandler) ListUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.User{})

	if search := c.Query("search"); search != "" {
		q := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", q, q)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("is_active = ?", status == "active")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := query.
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&users).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"users":      users,
		"pagination": pg.Meta(total),
	})
}

// ToggleUserStatus flips a customer's active flag. Deactivation takes
// effect on the user's next request via the live middleware lookup.
func (h *DashboardHandler) ToggleUserStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	user.IsActive = !user.IsActive
	if err := h.db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("is_active", user.IsActive).Error; err != nil {
		return err
	}

	action := "deactivated"
	if user.IsActive {
		action = "activated"
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("User %s successfully", action),
		"user": fiber.Map{
			"id":        user.ID,
			"name":      user.Name,
			"email":     user.Email,
			"role":      user.Role,
			"is_active": user.IsActive,
		},
	})
}
