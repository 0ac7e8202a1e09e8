package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/littletreasures/internal/config"
	"github.com/example/littletreasures/internal/database"
	"github.com/example/littletreasures/internal/middleware"
	"github.com/example/littletreasures/internal/routes"
	"github.com/example/littletreasures/internal/services"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName:      "Little Treasures Backend",
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	app.Static("/uploads", cfg.UploadDir)

	mailer := services.NewSMTPMailer(cfg)
	routes.Register(app, db, cfg, mailer)

	services.StartOTPJanitor(db, 30*time.Minute)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
