package employee

import (
	"go-workforce/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("", middleware.RateLimitByUser(5, 20), h.GetAll)
		employees.GET("/:id", middleware.RateLimitByUser(5, 20), h.GetById)
	}
}
