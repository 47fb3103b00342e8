package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"armory/internal/core/container"
	"armory/internal/middleware"
	"armory/pkg/security"
)

// Register wires the middleware stack and every feature handler. Login and
// the health probe stay public; everything else sits behind JWT auth.
func Register(router *gin.Engine, c *container.Container, log *zap.Logger) {
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware(log))

	router.GET("/health", middleware.HealthCheckHandler())
	c.LoginHandler.RegisterRoutes(router)

	protected := router.Group("")
	protected.Use(security.JWTMiddleware())

	c.UserHandler.RegisterRoutes(protected)
	c.BaseHandler.RegisterRoutes(protected)
	c.AssetHandler.RegisterRoutes(protected)
	c.StockHandler.RegisterRoutes(protected)
	c.PurchaseHandler.RegisterRoutes(protected)
	c.TransferHandler.RegisterRoutes(protected)
	c.AssignmentHandler.RegisterRoutes(protected)
	c.DashboardHandler.RegisterRoutes(protected)
	c.AuditLogHandler.RegisterRoutes(protected)
}
