package attendance

import (
	"go-workforce/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.GET("", h.GetAll)
		attendances.POST("/clock-in", middleware.RateLimitByUser(1, 3), h.ClockIn)
		attendances.POST("/clock-out", middleware.RateLimitByUser(1, 3), h.ClockOut)

		approvers := attendances.Group("")
		approvers.Use(middleware.RoleMiddleware(middleware.RoleManager, middleware.RoleHR))
		{
			approvers.POST("/manual", h.ManualEntry)
			approvers.POST("/:id/approve", h.Approve)
			approvers.POST("/:id/reject", h.Reject)
			approvers.POST("/bulk-approve", h.BulkApprove)
		}
	}
}
