package models

import (
	"github.com/lib/pq"
)

// Product is a catalog entry. Stock is decremented by order placement and
// must never go negative.
type Product struct {
	BaseModel
	Name        string         `json:"name"`
	Price       float64        `json:"price"`
	Category    string         `gorm:"index" json:"category"`
	Stock       int            `gorm:"default:0" json:"stock"`
	Description string         `json:"description"`
	Images      pq.StringArray `gorm:"type:text[]" json:"images"`
	MainImage   string         `json:"main_image"`
	Featured    bool           `json:"featured"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	SKU         string         `gorm:"uniqueIndex" json:"sku"`
}
