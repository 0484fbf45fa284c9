// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/charity-auction-backend/internal/config"
	"github.com/your-org/charity-auction-backend/internal/interfaces/http/handlers"
	"github.com/your-org/charity-auction-backend/internal/interfaces/http/middleware"
	"github.com/your-org/charity-auction-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// SetupRoutes wires every API route group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	setupAuthRoutes(rg, db, cfg)
	setupGiftRoutes(rg, db, cfg)
	setupDonorRoutes(rg, db, cfg)
	setupCartRoutes(rg, db, cfg)
	setupPurchaseRoutes(rg, db, cfg)
	setupRaffleRoutes(rg, db, redisClient, cfg, log)
	setupReportRoutes(rg, db, cfg)
}

func setupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}
}

func setupGiftRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	giftHandler := handlers.NewGiftHandler(db, cfg)

	gifts := rg.Group("/gifts")
	gifts.Use(middleware.AuthMiddleware(cfg))
	{
		gifts.GET("", giftHandler.ListGifts)
		gifts.GET("/categories", giftHandler.ListCategories)
		gifts.GET("/:id", giftHandler.GetGift)

		// Catalog management is manager-only
		managed := gifts.Group("")
		managed.Use(middleware.RequireRole(auth.RoleManager))
		{
			managed.GET("/search", giftHandler.SearchGifts)
			managed.POST("", giftHandler.CreateGift)
			managed.PUT("/:id", giftHandler.UpdateGift)
			managed.DELETE("/:id", giftHandler.DeleteGift)
		}
	}
}

func setupDonorRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	donorHandler := handlers.NewDonorHandler(db, cfg)

	donors := rg.Group("/donors")
	donors.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole(auth.RoleManager))
	{
		donors.GET("", donorHandler.ListDonors)
		donors.GET("/:id", donorHandler.GetDonor)
		donors.POST("", donorHandler.CreateDonor)
		donors.PUT("/:id", donorHandler.UpdateDonor)
		donors.DELETE("/:id", donorHandler.DeleteDonor)
	}
}

func setupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(db, cfg)

	cart := rg.Group("/cart")
	cart.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole(auth.RoleCustomer))
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("/items", cartHandler.AddToCart)
		cart.DELETE("/items/:giftId", cartHandler.RemoveFromCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/finalize", cartHandler.FinalizeCart)
	}
}

func setupPurchaseRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	purchaseHandler := handlers.NewPurchaseHandler(db, cfg)

	purchases := rg.Group("/purchases")
	purchases.Use(middleware.AuthMiddleware(cfg))
	{
		purchases.GET("/my-purchases", purchaseHandler.ListMyPurchases)

		managed := purchases.Group("")
		managed.Use(middleware.RequireRole(auth.RoleManager))
		{
			managed.GET("", purchaseHandler.ListPurchases)
			managed.GET("/most-expensive", purchaseHandler.MostExpensive)
			managed.GET("/gift/:id", purchaseHandler.ListGiftPurchases)
		}
	}
}

func setupRaffleRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	raffleHandler := handlers.NewRaffleHandler(db, redisClient, cfg, log)

	raffleGroup := rg.Group("/raffle")
	raffleGroup.Use(middleware.AuthMiddleware(cfg))
	{
		raffleGroup.GET("/results", raffleHandler.ListOutcomes)

		managed := raffleGroup.Group("")
		managed.Use(middleware.RequireRole(auth.RoleManager))
		{
			managed.GET("/available", raffleHandler.ListEligible)
			managed.POST("/run/:giftId", raffleHandler.DrawOne)
			managed.POST("/run-all", raffleHandler.DrawAll)
		}
	}
}

func setupReportRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	analyticsHandler := handlers.NewAnalyticsHandler(db, cfg)

	reports := rg.Group("/reports")
	reports.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole(auth.RoleManager))
	{
		reports.GET("/sales", analyticsHandler.SalesReport)
		reports.GET("/top-gifts", analyticsHandler.TopGifts)
	}
}
