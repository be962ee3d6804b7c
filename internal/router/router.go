package router

import (
	"github.com/gin-gonic/gin"

	"tripdesk/internal/handler"
	"tripdesk/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(webhookH *handler.WebhookHandler, healthH *handler.HealthHandler) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// LINE webhook
	r.POST("/callback", webhookH.Callback)

	return r
}
