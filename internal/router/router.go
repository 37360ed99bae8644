// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/novamart/marketplace-backend/internal/config"
	"github.com/novamart/marketplace-backend/internal/handlers"
	"github.com/novamart/marketplace-backend/internal/middleware"
	"github.com/novamart/marketplace-backend/internal/services"
	"github.com/novamart/marketplace-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)

	authService := services.NewAuthService(db, cfg)
	cartService := services.NewCartService(db)
	orderService := services.NewOrderService(db, notificationService)
	deliveryService := services.NewDeliveryService(db, notificationService)
	productService := services.NewProductService(db)
	adminService := services.NewAdminService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService, storageService)
	shopHandler := handlers.NewShopHandler(cartService, orderService, notificationService)
	deliveryHandler := handlers.NewDeliveryHandler(deliveryService)
	adminHandler := handlers.NewAdminHandler(adminService, orderService, deliveryService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	api := r.Group("/api")
	{
		// Authentication routes
		auth := api.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/admin-login", authHandler.AdminLogin)
			auth.POST("/delivery-login", authHandler.DeliveryLogin)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/seller", middleware.AuthRequired(), authHandler.ApplySeller)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Product catalog
		products := api.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), productHandler.GetProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.GET("/:id/reviews", productHandler.GetReviews)

			// Seller routes
			seller := products.Group("")
			seller.Use(middleware.AuthRequired(), middleware.SellerRequired())
			{
				seller.POST("", productHandler.CreateProduct)
				seller.PUT("/:id", productHandler.UpdateProduct)
				seller.DELETE("/:id", productHandler.DeleteProduct)
				seller.POST("/upload", middleware.UploadRateLimit(), productHandler.UploadImage)
			}

			products.POST("/:id/reviews", middleware.AuthRequired(), productHandler.AddReview)
		}

		// Customer shop routes
		shop := api.Group("/shop")
		shop.Use(middleware.AuthRequired())
		{
			shop.GET("/cart", shopHandler.GetCart)
			shop.POST("/cart", shopHandler.AddToCart)
			shop.DELETE("/cart/:productId", shopHandler.RemoveFromCart)
			shop.POST("/orders", middleware.CheckoutRateLimit(), shopHandler.PlaceOrder)
			shop.GET("/orders", shopHandler.GetOrders)
			shop.GET("/notifications", shopHandler.GetNotifications)
		}

		// Delivery agent routes
		delivery := api.Group("/delivery")
		delivery.Use(middleware.AuthRequired(), middleware.DeliveryRequired())
		{
			delivery.GET("/orders", deliveryHandler.GetAssignedOrders)
			delivery.PATCH("/orders/:id/status", deliveryHandler.UpdateOrderStatus)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/stats", adminHandler.GetStats)
			admin.GET("/customers", adminHandler.GetCustomers)
			admin.GET("/sellers", adminHandler.GetSellers)

			admin.GET("/orders/unassigned", adminHandler.GetUnassignedOrders)
			admin.POST("/orders/:id/assign", adminHandler.AssignOrder)
			admin.DELETE("/orders/:id", adminHandler.CancelOrder)

			admin.POST("/agents", adminHandler.CreateAgent)
			admin.GET("/agents", adminHandler.GetAgents)
			admin.DELETE("/agents/:email", adminHandler.DeleteAgent)

			admin.POST("/admins", adminHandler.CreateAdmin)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
