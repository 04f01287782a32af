package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pujaseva-backend/internal/shared/middleware"
	"pujaseva-backend/pkg/container"
)

// SetupRouter registers middleware and all route groups.
func SetupRouter(engine *gin.Engine, c *container.Container) {
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(),
	)

	// ===== HEALTH =====
	engine.GET("/health", func(ctx *gin.Context) {
		status := http.StatusOK
		checks := gin.H{"database": "ok", "redis": "ok"}

		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		}

		ctx.JSON(status, gin.H{
			"status":  http.StatusText(status),
			"version": c.Config.App.Version,
			"checks":  checks,
		})
	})

	auth := middleware.AuthMiddleware(c.Config.JWT.Secret)
	admin := middleware.AdminMiddleware()

	v1 := engine.Group("/api/v1")
	{
		// ===== AUTH =====
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", c.UserHandler.Register)
			authGroup.POST("/login", c.UserHandler.Login)
			authGroup.POST("/refresh", c.UserHandler.RefreshToken)
		}

		// ===== USERS =====
		users := v1.Group("/users", auth)
		{
			users.GET("/me", c.UserHandler.GetProfile)
			users.PUT("/me", c.UserHandler.UpdateProfile)
		}

		// ===== ADDRESSES =====
		addresses := v1.Group("/addresses", auth)
		{
			addresses.POST("", c.AddressHandler.Create)
			addresses.GET("", c.AddressHandler.List)
			addresses.PUT("/:id", c.AddressHandler.Update)
			addresses.DELETE("/:id", c.AddressHandler.Delete)
			addresses.POST("/:id/default", c.AddressHandler.SetDefault)
		}

		// ===== CATALOG (public) =====
		services := v1.Group("/services")
		{
			services.GET("", c.CatalogHandler.ListServices)
			services.GET("/:slug", c.CatalogHandler.GetServiceBySlug)
		}

		// ===== CART =====
		cart := v1.Group("/cart", auth)
		{
			cart.GET("", c.CartHandler.GetCart)
			cart.PUT("/item", c.CartHandler.SetItem)
			cart.PUT("/address", c.CartHandler.SetAddress)
			cart.POST("/promo", c.CartHandler.ApplyPromo)
			cart.DELETE("/promo", c.CartHandler.RemovePromo)
		}

		// ===== PAYMENTS =====
		payments := v1.Group("/payments")
		{
			// Gateway-facing; authenticated by the webhook credential,
			// not a user JWT.
			payments.POST("/webhook", c.PaymentHandler.Webhook)

			payments.POST("/initiate", auth, c.PaymentHandler.Initiate)
			payments.GET("/verify", auth, c.PaymentHandler.VerifyByCart)
			payments.GET("/:merchantTxnId/status", auth, c.PaymentHandler.Status)
		}

		// ===== BOOKINGS =====
		bookings := v1.Group("/bookings", auth)
		{
			bookings.GET("", c.BookingHandler.List)
			bookings.GET("/by-cart/:cartId", c.BookingHandler.LookupByCart)
			bookings.GET("/:id", c.BookingHandler.Get)
		}

		// ===== ADMIN =====
		adminGroup := v1.Group("/admin", auth, admin)
		{
			adminGroup.POST("/services", c.CatalogHandler.CreateService)
			adminGroup.PUT("/services/:id", c.CatalogHandler.UpdateService)
			adminGroup.POST("/services/:id/image", c.CatalogHandler.UploadServiceImage)
			adminGroup.POST("/services/:id/packages", c.CatalogHandler.CreatePackage)
			adminGroup.PUT("/packages/:id", c.CatalogHandler.UpdatePackage)

			adminGroup.POST("/promotions", c.PromotionHandler.Create)
			adminGroup.GET("/promotions", c.PromotionHandler.List)
			adminGroup.PUT("/promotions/:id", c.PromotionHandler.Update)

			adminGroup.GET("/bookings", c.BookingHandler.ListAll)
			adminGroup.PUT("/bookings/:id/schedule", c.BookingHandler.Reschedule)
			adminGroup.POST("/bookings/:id/cancel", c.BookingHandler.Cancel)
		}
	}
}
