package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/littletreasures/internal/config"
	"github.com/example/littletreasures/internal/handlers"
	"github.com/example/littletreasures/internal/middleware"
	"github.com/example/littletreasures/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, mailer services.Mailer) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	otpHandler := handlers.NewOTPHandler(db, cfg, mailer)
	resetHandler := handlers.NewPasswordResetHandler(db, cfg)
	productHandler := handlers.NewProductHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db)
	profileHandler := handlers.NewProfileHandler(db, cfg)
	dashboardHandler := handlers.NewDashboardHandler(db)

	customerOnly := middleware.CustomerAuth(db, cfg)
	adminOnly := middleware.AdminAuth(db, cfg)

	api := app.Group("/api")

	api.Get("/health", handlers.Health)

	// OTP routes
	api.Post("/send-otp", otpHandler.SendOTP)
	api.Post("/verify-otp", otpHandler.VerifyOTP)

	// Public catalog and checkout
	api.Get("/products", productHandler.ListProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Post("/create-order", orderHandler.CreateOrder)

	// Customer auth routes
	user := api.Group("/user")
	user.Post("/register", authHandler.Register)
	user.Post("/login", authHandler.Login)
	user.Post("/reset-password", resetHandler.ResetPassword)

	// Customer protected routes
	user.Get("/profile", customerOnly, profileHandler.GetProfile)
	user.Put("/profile", customerOnly, profileHandler.UpdateProfile)
	user.Post("/addresses", customerOnly, profileHandler.AddAddress)
	user.Post("/wishlist/:productId", customerOnly, profileHandler.AddToWishlist)
	user.Delete("/wishlist/:productId", customerOnly, profileHandler.RemoveFromWishlist)
	user.Get("/orders", customerOnly, profileHandler.ListOrders)

	// Admin auth
	api.Post("/admin/login", authHandler.AdminLogin)

	// Admin protected routes
	api.Post("/products", adminOnly, productHandler.CreateProduct)
	api.Put("/products/:id", adminOnly, productHandler.UpdateProduct)
	api.Delete("/products/:id", adminOnly, productHandler.DeleteProduct)

	api.Get("/orders", adminOnly, orderHandler.ListOrders)
	api.Get("/orders/:id", adminOnly, orderHandler.GetOrder)
	api.Put("/orders/:id", adminOnly, orderHandler.UpdateOrder)

	api.Get("/dashboard-stats", adminOnly, dashboardHandler.Stats)
	api.Get("/admin/users", adminOnly, dashboardHandler.ListUsers)
	api.Patch("/admin/users/:userId/toggle-status", adminOnly, dashboardHandler.ToggleUserStatus)
	api.Get("/analytics/sales", adminOnly, dashboardHandler.SalesAnalytics)
}
