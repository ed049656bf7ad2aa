package timesheet

import (
	"go-workforce/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	timesheets := r.Group("/timesheets")
	timesheets.Use(middleware.AuthMiddleware())
	{
		timesheets.GET("", h.GetAll)
		timesheets.GET("/:id", h.GetByID)

		reviewers := timesheets.Group("")
		reviewers.Use(middleware.RoleMiddleware(middleware.RoleManager, middleware.RoleHR))
		{
			reviewers.POST("/generate", h.Generate)
			reviewers.POST("/:id/approve", h.Approve)
			reviewers.POST("/:id/reject", h.Reject)
		}
	}
}
