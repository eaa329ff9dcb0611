package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"storefront-api/config"
	orderControllers "storefront-api/controllers/order"
	"storefront-api/models"
	"storefront-api/payments"
	"storefront-api/reconcile"
	"storefront-api/routes"
	"storefront-api/store"
)

func main() {
	log.Println("✅ Starting application...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}

	db := initDatabase(cfg)

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.Product{},
		&models.Coupon{},
		&models.CartHeader{},
		&models.CartLine{},
		&models.OrderHeader{},
		&models.OrderLine{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	// Stores and payment gateway
	productStore := store.NewProductStore(db)
	couponStore := store.NewCouponStore(db)
	cartStore := store.NewCartStore(db, productStore, couponStore)
	orderStore := store.NewOrderStore(db)

	gatewayOpts := []payments.Option{}
	if cfg.StripeBaseURL != "" {
		gatewayOpts = append(gatewayOpts, payments.WithBaseURL(cfg.StripeBaseURL))
	}
	gateway := payments.NewClient(cfg.StripeSecretKey, gatewayOpts...)

	reconciler := reconcile.NewReconciler(gateway, orderStore)
	reconciler.OnTransition(orderControllers.BroadcastStatus)

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, routes.Deps{
		Config:     cfg,
		Carts:      cartStore,
		Orders:     orderStore,
		Coupons:    couponStore,
		Products:   productStore,
		Gateway:    gateway,
		Reconciler: reconciler,
	})

	log.Printf("🚀 Server running on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	return db
}
