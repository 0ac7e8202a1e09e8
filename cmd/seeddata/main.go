// Command seeddata loads the sample catalog into an empty database so a
// fresh deployment has something to show. It refuses to touch a catalog
// that already has products.
package main

import (
	"log"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/example/littletreasures/internal/config"
	"github.com/example/littletreasures/internal/database"
	"github.com/example/littletreasures/internal/models"
	"github.com/example/littletreasures/internal/services"
)

var sampleProducts = []models.Product{
	{
		Name:        "Rainbow Pencil Set",
		Price:       150,
		Category:    "stationery",
		Stock:       25,
		Description: "Colorful set of 12 pencils with rainbow design, perfect for art and writing",
		Tags:        pq.StringArray{"pencils", "colorful", "art", "rainbow"},
		Featured:    true,
	},
	{
		Name:        "Unicorn Backpack",
		Price:       850,
		Category:    "bags",
		Stock:       12,
		Description: "Beautiful unicorn themed backpack with sparkly details and multiple compartments",
		Tags:        pq.StringArray{"backpack", "unicorn", "school", "sparkly"},
		Featured:    true,
	},
	{
		Name:        "Star Sticker Pack",
		Price:       75,
		Category:    "accessories",
		Stock:       30,
		Description: "Pack of 50 colorful star stickers in various sizes",
		Tags:        pq.StringArray{"stickers", "stars", "decoration"},
	},
	{
		Name:        "Colorful Notebooks",
		Price:       200,
		Category:    "stationery",
		Stock:       20,
		Description: "Set of 3 colorful notebooks with fun animal designs and lined pages",
		Tags:        pq.StringArray{"notebooks", "animals", "writing"},
		Featured:    true,
	},
	{
		Name:        "Princess Lunch Bag",
		Price:       450,
		Category:    "bags",
		Stock:       15,
		Description: "Insulated lunch bag with princess theme, keeps food fresh and cool",
		Tags:        pq.StringArray{"lunch bag", "princess", "insulated"},
	},
	{
		Name:        "Fun Erasers Set",
		Price:       120,
		Category:    "accessories",
		Stock:       40,
		Description: "Set of 10 fun-shaped erasers including fruits, animals, and toys",
		Tags:        pq.StringArray{"erasers", "fun shapes", "animals", "fruits"},
	},
}

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	var existing int64
	if err := db.Model(&models.Product{}).Count(&existing).Error; err != nil {
		log.Fatalf("failed to count products: %v", err)
	}
	if existing > 0 {
		log.Printf("Catalog already has %d products, nothing to do", existing)
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for i := range sampleProducts {
			seq, err := services.NextSequence(tx, services.CounterProducts)
			if err != nil {
				return err
			}
			sampleProducts[i].SKU = services.FormatSKU(sampleProducts[i].Category, seq)

			if err := tx.Create(&sampleProducts[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("failed to seed catalog: %v", err)
	}

	log.Printf("Seeded %d sample products", len(sampleProducts))
}
