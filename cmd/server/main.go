package main

import (
	"log"
	"time"

	"restopos/internal/auth"
	"restopos/internal/config"
	"restopos/internal/database"
	"restopos/internal/handlers"
	"restopos/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	auth.SetSecret(cfg.JWTSecret)

	database.Connect(cfg.DatabaseDSN)
	if err := database.Seed(database.DB, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal("Failed to seed database:", err)
	}

	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", handlers.Login)

	if cfg.AllowRegister {
		r.POST("/register", handlers.Register)
		log.Println("WARNING: Registration route is OPEN. Disable this in production!")
	}

	v1 := r.Group("/v1")
	v1.Use(middleware.AuthMiddleware())
	{
		// Cashier-facing order lifecycle
		sales := v1.Group("/")
		sales.Use(middleware.RequireRole("admin", "cashier"))
		{
			sales.POST("/orders", handlers.CreateOrder)
			sales.GET("/orders", handlers.ListOrders)
			sales.GET("/orders/:id", handlers.GetOrder)
			sales.POST("/orders/:id/items", handlers.AddOrderItem)
			sales.PUT("/order-items/:id", handlers.UpdateOrderItem)
			sales.DELETE("/order-items/:id", handlers.DeleteOrderItem)
			sales.POST("/orders/:id/cancel", handlers.CancelOrder)
			sales.POST("/orders/:id/checkout", handlers.CheckoutOrder(cfg.StrictPayments))

			sales.GET("/tables", handlers.ListTables)
			sales.PUT("/tables/:id/status", handlers.SetTableStatus)
			sales.GET("/catalog/items", handlers.ListItems)
			sales.GET("/discounts/available", handlers.ListAvailableDiscounts)
			sales.GET("/payment-methods", handlers.ListPaymentMethods)
			sales.GET("/reason-codes", handlers.ListReasonCodes)
		}

		// Production views; cashiers may watch the queue
		v1.GET("/kitchen/queue",
			middleware.RequireRole("admin", "kitchen", "cashier"), handlers.KitchenQueue)
		kitchen := v1.Group("/kitchen")
		kitchen.Use(middleware.RequireRole("admin", "kitchen"))
		{
			kitchen.GET("/history", handlers.KitchenHistory)
			kitchen.PUT("/items/:id/status", handlers.SetKitchenItemStatus)
		}

		// Back office
		admin := v1.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.GET("/reports/sales", handlers.GetSalesReport)
			admin.GET("/system/status", handlers.GetSystemStatus)
			admin.POST("/ask", handlers.AskAI)
		}
	}

	r.NoRoute(handlers.NotFoundRoute)

	log.Println("Server starting on :" + cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
