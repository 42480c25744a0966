// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/postgres"
	redisdb "github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/receipt"
)

// SetupRoutes wires services, handlers and the API route tree.
func SetupRoutes(router *gin.Engine, cfg *config.Config, log *logrus.Logger, db *postgres.Database, redisClient *redisdb.Client) {
	// Shared infrastructure
	jwtManager := auth.NewJWTManager(cfg)
	passwordManager := auth.NewPasswordManager(cfg)

	// Domain services
	catalogService := catalog.NewService(db.GetDB())
	userService := user.NewService(db.GetDB(), passwordManager)
	orderService := order.NewService(db.GetDB())
	receiptService := receipt.NewService(cfg)

	cartStore := cart.NewRedisStore(redisClient.GetClient(), cfg.Store.CartSessionTTL)
	cartEngine := cart.NewEngine(cartStore, log)
	orchestrator := checkout.NewOrchestrator(orderService, cartEngine, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, jwtManager, passwordManager, log)
	productHandler := handlers.NewProductHandler(catalogService, log)
	cartHandler := handlers.NewCartHandler(cartEngine, catalogService, cfg, log)
	checkoutHandler := handlers.NewCheckoutHandler(orchestrator, cartEngine, log)
	orderHandler := handlers.NewOrderHandler(orderService, catalogService, receiptService, log)

	api := router.Group("/api")

	// Authentication
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh", authHandler.RefreshToken)

		profile := authRoutes.Group("")
		profile.Use(middleware.AuthMiddleware(cfg))
		{
			profile.GET("/profile", authHandler.GetProfile)
			profile.PUT("/profile", authHandler.UpdateProfile)
		}
	}

	// Catalog (public)
	api.GET("/products", productHandler.ListProducts)
	api.GET("/products/:idOrSlug", productHandler.GetProduct)
	api.GET("/categories", productHandler.ListCategories)
	api.GET("/categories/:slug", productHandler.GetCategory)

	// Cart (cookie session, works for guests and users alike)
	cartRoutes := api.Group("/cart")
	{
		cartRoutes.GET("", cartHandler.GetCart)
		cartRoutes.DELETE("", cartHandler.ClearCart)
		cartRoutes.GET("/count", cartHandler.GetCount)
		cartRoutes.POST("/items", cartHandler.AddItem)
		cartRoutes.PUT("/items/:productId", cartHandler.UpdateItem)
		cartRoutes.DELETE("/items/:productId", cartHandler.RemoveItem)
	}

	// Checkout
	api.POST("/checkout", middleware.OptionalAuthMiddleware(cfg), checkoutHandler.Checkout)

	// Orders
	orderRoutes := api.Group("/orders")
	orderRoutes.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		orderRoutes.POST("", orderHandler.CreateOrder)
		orderRoutes.POST("/:orderId/items", orderHandler.AddItem)
		orderRoutes.GET("/:orderId", orderHandler.GetOrder)
		orderRoutes.GET("/:orderId/receipt", orderHandler.GetReceipt)
	}
	api.PATCH("/orders/:orderId/status",
		middleware.AuthMiddleware(cfg), middleware.AdminMiddleware(), orderHandler.UpdateStatus)

	// Order history
	api.GET("/users/:userId/orders", middleware.AuthMiddleware(cfg), orderHandler.GetUserOrders)
}
