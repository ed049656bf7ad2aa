package leave

import (
	"go-workforce/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.GET("", h.GetAll)
		leaves.POST("", h.Create)
		leaves.GET("/balances", h.GetBalances)
		leaves.GET("/:id", h.GetByID)
		leaves.GET("/:id/activity", h.GetActivity)
		leaves.POST("/:id/cancel", h.Cancel)

		managers := leaves.Group("")
		managers.Use(middleware.RoleMiddleware(middleware.RoleManager))
		{
			managers.POST("/:id/manager-approve", h.ManagerApprove)
			managers.POST("/:id/manager-reject", h.ManagerReject)
		}

		hr := leaves.Group("")
		hr.Use(middleware.RoleMiddleware(middleware.RoleHR))
		{
			hr.POST("/:id/hr-approve", h.HRApprove)
			hr.POST("/:id/hr-reject", h.HRReject)
		}
	}
}
