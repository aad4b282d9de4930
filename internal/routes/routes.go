package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/AlphaDevs01/controleProducao/internal/container"
	"github.com/AlphaDevs01/controleProducao/internal/middleware"
	"github.com/AlphaDevs01/controleProducao/pkg/security"
)

// RegisterPublicRoutes wires the endpoints that work without a token.
func RegisterPublicRoutes(router *gin.Engine, container *container.Container) {
	container.LoginHandler.RegisterRoutes(router)
}

// RegisterProtectedRoutes wires everything behind JWT authentication.
func RegisterProtectedRoutes(router *gin.Engine, container *container.Container) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())

	container.ProductHandler.RegisterRoutes(protectedRoutes)
	container.BomHandler.RegisterRoutes(protectedRoutes)
	container.InventoryHandler.RegisterRoutes(protectedRoutes)
	container.ProductionHandler.RegisterRoutes(protectedRoutes)
	container.EstimatorHandler.RegisterRoutes(protectedRoutes)
	container.DashboardHandler.RegisterRoutes(protectedRoutes)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", middleware.HealthCheckHandler())
}
