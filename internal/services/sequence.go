package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/example/littletreasures/internal/models"
)

// Counter names.
const (
	CounterProducts = "products"
	CounterOrders   = "orders"
)

// NextSequence atomically advances the named counter and returns its new
// value. The increment is a relative update, so two concurrent callers can
// never observe the same value. Runs inside the caller's transaction when
// given one.
func NextSequence(db *gorm.DB, name string) (int64, error) {
	res := db.Model(&models.Counter{}).
		Where("name = ?", name).
		UpdateColumn("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected == 0 {
		counter := models.Counter{Name: name, Value: 1}
		if err := db.Create(&counter).Error; err != nil {
			return 0, err
		}
		return counter.Value, nil
	}

	var counter models.Counter
	if err := db.Where("name = ?", name).First(&counter).Error; err != nil {
		return 0, err
	}
	return counter.Value, nil
}

// FormatSKU renders a human-readable product SKU from its category and
// assigned sequence number.
func FormatSKU(category string, seq int64) string {
	return fmt.Sprintf("LT-%s-%04d", strings.ToUpper(category), seq)
}

// FormatOrderNumber renders a human-readable order number.
func FormatOrderNumber(seq int64) string {
	return fmt.Sprintf("LT%06d", seq)
}
