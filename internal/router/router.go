// Package router assembles the gin engine: middleware chain, public
// storefront routes, payment webhook, and the RBAC-guarded admin API.
package router

import (
	"fmt"
	"strings"
	"time"

	"github.com/inkfolio-shop/internal/cache"
	"github.com/inkfolio-shop/internal/config"
	adminhandlers "github.com/inkfolio-shop/internal/http/handlers/admin"
	publichandlers "github.com/inkfolio-shop/internal/http/handlers/public"
	"github.com/inkfolio-shop/internal/http/response"
	"github.com/inkfolio-shop/internal/logger"
	"github.com/inkfolio-shop/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the HTTP routing tree.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ink"
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// Uploaded images are served straight from disk.
	uploadDir := strings.TrimSpace(cfg.Upload.BaseDir)
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	r.Static("/uploads", uploadDir)

	r.GET("/health", func(ctx *gin.Context) {
		response.Success(ctx, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})

	api := r.Group("/api")
	{
		api.POST("/auth/login", RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("username")), publicHandler.Login)

		shop := api.Group("/shop")
		{
			shop.GET("/products", publicHandler.ListProducts)
			shop.GET("/products/:slug", publicHandler.GetProduct)
			shop.GET("/categories", publicHandler.ListCategories)

			shop.GET("/cart", publicHandler.GetCart)
			shop.POST("/cart/items", publicHandler.AddCartItem)
			shop.PUT("/cart/items/:id", publicHandler.UpdateCartItem)
			shop.DELETE("/cart/items/:id", publicHandler.RemoveCartItem)
			shop.POST("/cart/discount", publicHandler.ApplyCartDiscount)
			shop.DELETE("/cart/discount", publicHandler.RemoveCartDiscount)
			shop.DELETE("/cart", publicHandler.ClearCart)

			shop.POST("/checkout", publicHandler.Checkout)
			shop.GET("/orders/:number", publicHandler.GetOrder)
		}

		api.POST("/payments/webhook", publicHandler.PaymentWebhook)

		api.GET("/characters", publicHandler.ListCharacters)
		api.GET("/characters/:slug", publicHandler.GetCharacter)
		api.GET("/comics", publicHandler.ListComics)
		api.GET("/comics/:slug", publicHandler.GetComic)

		admin := api.Group("/admin")
		admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
		{
			admin.GET("/me", adminHandler.Profile)

			admin.GET("/products", adminHandler.ListProducts)
			admin.GET("/products/:id", adminHandler.GetProduct)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)
			admin.POST("/products/:id/restore", adminHandler.RestoreProduct)
			admin.POST("/products/:id/variants", adminHandler.CreateVariant)
			admin.PUT("/variants/:id", adminHandler.UpdateVariant)
			admin.DELETE("/variants/:id", adminHandler.DeleteVariant)
			admin.POST("/products/:id/images", adminHandler.AddProductImage)
			admin.DELETE("/images/:id", adminHandler.DeleteProductImage)

			admin.GET("/categories", adminHandler.ListCategories)
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.PUT("/categories/:id", adminHandler.UpdateCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteCategory)
			admin.POST("/categories/:id/restore", adminHandler.RestoreCategory)

			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)
			admin.POST("/orders/:id/status", adminHandler.UpdateOrderStatus)
			admin.POST("/orders/:id/fulfill", adminHandler.FulfillOrder)
			admin.POST("/orders/:id/mark-paid", adminHandler.MarkOrderPaid)
			admin.POST("/orders/:id/refund", adminHandler.RefundOrder)
			admin.POST("/orders/:id/cancel", adminHandler.CancelOrder)
			admin.POST("/orders/:id/restore", adminHandler.RestoreOrder)
			admin.GET("/statistics", adminHandler.OrderStatistics)

			admin.GET("/notifications", adminHandler.ListNotifications)
			admin.GET("/notifications/unread-count", adminHandler.UnreadNotificationCount)
			admin.GET("/notifications/:id", adminHandler.GetNotification)
			admin.POST("/notifications/:id/read", adminHandler.MarkNotificationRead)
			admin.POST("/notifications/read-all", adminHandler.MarkAllNotificationsRead)
			admin.DELETE("/notifications/:id", adminHandler.DeleteNotification)

			admin.GET("/characters", adminHandler.ListCharacters)
			admin.POST("/characters", adminHandler.CreateCharacter)
			admin.PUT("/characters/:id", adminHandler.UpdateCharacter)
			admin.DELETE("/characters/:id", adminHandler.DeleteCharacter)
			admin.POST("/characters/:id/restore", adminHandler.RestoreCharacter)

			admin.GET("/comics", adminHandler.ListComics)
			admin.POST("/comics", adminHandler.CreateComic)
			admin.PUT("/comics/:id", adminHandler.UpdateComic)
			admin.DELETE("/comics/:id", adminHandler.DeleteComic)
			admin.POST("/comics/:id/restore", adminHandler.RestoreComic)

			admin.POST("/upload", adminHandler.Upload)
		}
	}

	return r
}
