// Command seedadmin creates or updates the initial back-office admin
// account from environment variables.
package main

import (
	"errors"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/example/littletreasures/internal/config"
	"github.com/example/littletreasures/internal/database"
	"github.com/example/littletreasures/internal/models"
	"github.com/example/littletreasures/internal/utils"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	username := getenv("ADMIN_USERNAME", "admin")
	email := getenv("ADMIN_EMAIL", "admin@littletreasures.local")
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD must be set")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var existing models.Admin
	err = db.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		if err := db.Model(&existing).Updates(map[string]interface{}{
			"username":      username,
			"password_hash": hash,
			"is_active":     true,
		}).Error; err != nil {
			log.Fatalf("failed to update admin: %v", err)
		}
		log.Printf("Updated admin account %s", email)
	case errors.Is(err, gorm.ErrRecordNotFound):
		admin := models.Admin{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			Role:         "admin",
			Permissions:  models.DefaultAdminPermissions,
			IsActive:     true,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("failed to create admin: %v", err)
		}
		log.Printf("Created admin account %s", email)
	default:
		log.Fatalf("failed to look up admin: %v", err)
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
