package http

import (
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/car-rental-backend/internal/auth"
)

// RegisterRoutes registers all user-related routes (including Auth).
func RegisterRoutes(g *gin.RouterGroup, h *UserHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	// Public Routes
	authGroup := g.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	// Authenticated Routes
	g.GET("/me", authMiddleware, h.Me)

	usersGroup := g.Group("/users")
	{
		usersGroup.POST("", h.Register)
		usersGroup.GET("", authMiddleware, adminMiddleware, h.List)

		selfOrAdmin := auth.RequireSelfOrAdmin("id")
		usersGroup.GET("/:id", authMiddleware, selfOrAdmin, h.Get)
		usersGroup.PUT("/:id", authMiddleware, selfOrAdmin, h.Update)
		usersGroup.DELETE("/:id", authMiddleware, selfOrAdmin, h.Delete)
	}
}
