package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", adminMiddleware, h.List)
		group.POST("", h.Create)
		group.GET("/:id", h.Get)
		// :id is the user id here; it shares the wildcard name with the booking routes.
		group.GET("/:id/bookings", h.ListByUser)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}
}
