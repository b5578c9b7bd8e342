package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront-service/cache"
	"storefront-service/checkout"
	"storefront-service/config"
	"storefront-service/consumers"
	"storefront-service/controllers"
	"storefront-service/database"
	"storefront-service/gateway"
	"storefront-service/mailer"
	"storefront-service/middlewares"
	"storefront-service/rabbitmq"
)

func main() {
	cfg := config.LoadConfig()

	if err := database.InitDB(cfg); err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	defer database.CloseDB()
	store := database.NewStore(database.DB)

	rmq, err := rabbitmq.NewRabbitMQ(cfg)
	if err != nil {
		log.Fatalf("RabbitMQ initialization failed: %v", err)
	}
	defer rmq.Close()

	if err := rmq.SetupQueues(); err != nil {
		log.Fatalf("Failed to setup RabbitMQ queues: %v", err)
	}

	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom, cfg.MailBCC)
	go consumers.StartOrderConsumer(rmq.Channel, cfg, store, mail)

	catalogCache := cache.NewCatalogCache(cfg.RedisAddr, cfg.RedisPassword)
	defer catalogCache.Close()

	razorpay := gateway.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	svc := checkout.NewService(store, razorpay, rmq, cfg.RazorpayKeySecret, cfg.Currency)

	controllers.Setup(cfg, svc, store, catalogCache, rmq)

	r := gin.Default()

	r.Use(middlewares.PrometheusMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Storefront
	r.GET("/api/products", controllers.ListProducts)
	r.POST("/createOrder", controllers.CreateOrder)
	r.POST("/verifyPayment", controllers.VerifyPayment)
	r.POST("/applyCoupon", controllers.ApplyCoupon)

	// Admin back-office
	r.POST("/api/admin/login", controllers.AdminLogin)
	admin := r.Group("/api/admin")
	admin.Use(middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		admin.GET("/orders", controllers.ListOrders)
		admin.PUT("/orders/:id/status", controllers.UpdateOrderStatus)
		admin.POST("/coupons", controllers.CreateCoupon)
		admin.DELETE("/coupons/:code", controllers.DeactivateCoupon)
		admin.PUT("/products/:id", controllers.UpdateProduct)
	}

	port := ":8080"
	log.Printf("Storefront service starting on port %s", port)
	if err := r.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
