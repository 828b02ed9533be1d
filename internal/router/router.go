// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopkite/shop-backend/internal/config"
	"github.com/shopkite/shop-backend/internal/handlers"
	"github.com/shopkite/shop-backend/internal/middleware"
	"github.com/shopkite/shop-backend/internal/services"
	"github.com/shopkite/shop-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)

	authService := services.NewAuthService(db, cfg, notificationService)
	reviewService := services.NewReviewService(db)
	inventoryService := services.NewInventoryService(db)
	orderService := services.NewOrderService(db, notificationService)
	paymentService := services.NewPaymentService(db, cfg, orderService)
	moderationService := services.NewModerationService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(inventoryService, storageService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	orderHandler := handlers.NewOrderHandler(orderService, paymentService)
	reportHandler := handlers.NewReportHandler(moderationService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS([]string{cfg.Frontend.BaseURL}))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.GET("/:id/reviews", reviewHandler.GetProductReviews)
			products.GET("/:id/rating", reviewHandler.GetProductRating)

			products.POST("/:id/reviews", middleware.AuthRequired(), reviewHandler.SubmitReview)
			products.POST("/:id/reports", middleware.OptionalAuth(), reportHandler.ReportProduct)

			// Seller routes
			seller := products.Group("")
			seller.Use(middleware.AuthRequired(), middleware.SellerRequired())
			{
				seller.POST("", productHandler.CreateProduct)
				seller.PUT("/:id", productHandler.UpdateProduct)
				seller.POST("/:id/reduce-stock", productHandler.ReduceStock)
				seller.DELETE("/:id", productHandler.DeleteProduct)
				seller.POST("/:id/images", middleware.UploadRateLimit(), productHandler.UploadImage)
			}
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", orderHandler.GetUserOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.DELETE("/:id", orderHandler.DeleteOrder)
			orders.POST("/:id/payment-intent", orderHandler.CreatePaymentIntent)
			orders.POST("/:id/confirm-payment", orderHandler.ConfirmPayment)

			orders.PATCH("/:id/status", middleware.SellerRequired(), orderHandler.UpdateStatus)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/reports", reportHandler.GetReports)
			admin.PATCH("/reports/:id", reportHandler.ResolveReport)
			admin.POST("/orders/:id/refund", orderHandler.RefundOrder)
		}
	}

	return r
}
