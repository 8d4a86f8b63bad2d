// Package api contains the HTTP handlers and routing.
package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter configures the Gin router with all routes.
func SetupRouter(handler *Handler, ginMode string, log *zap.Logger) *gin.Engine {
	gin.SetMode(ginMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogger(log))

	// Health check (public)
	router.GET("/health", handler.Health)

	v1 := router.Group("/api/v1")
	{
		// Modal-facing paywall endpoints
		paywall := v1.Group("/paywall")
		{
			paywall.GET("/:item", handler.GetQuote)
			paywall.POST("/:item/coupon", handler.ApplyCoupon)
			paywall.POST("/:item/checkout", handler.StartCheckout)
		}

		// Widget callback endpoints
		checkout := v1.Group("/checkout")
		{
			checkout.POST("/:session_id/success", handler.ResolveSuccess)
			checkout.POST("/:session_id/failure", handler.ResolveFailure)
			checkout.POST("/:session_id/dismiss", handler.ResolveDismiss)
		}
	}

	return router
}
