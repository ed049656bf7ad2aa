package payroll

import (
	"go-workforce/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb ...*redis.Client) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	runs := r.Group("/payroll-runs")
	runs.Use(middleware.AuthMiddleware())
	runs.Use(middleware.RoleMiddleware(middleware.RoleHR))
	{
		runs.GET("", handler.GetAll)
		runs.GET("/:id", handler.GetByID)
		runs.GET("/:id/records", handler.GetRecords)

		calcLimit := middleware.RateLimitByUser(0.1, 2)
		if redisClient != nil {
			runs.POST("", middleware.Idempotency(redisClient), handler.CreateRun)
			runs.POST("/:id/calculate", calcLimit, middleware.Idempotency(redisClient), handler.Calculate)
			runs.POST("/:id/process", calcLimit, middleware.Idempotency(redisClient), handler.Process)
		} else {
			runs.POST("", handler.CreateRun)
			runs.POST("/:id/calculate", calcLimit, handler.Calculate)
			runs.POST("/:id/process", calcLimit, handler.Process)
		}
		runs.POST("/:id/approve", handler.Approve)
	}

	records := r.Group("/payroll-records")
	records.Use(middleware.AuthMiddleware())
	records.Use(middleware.RoleMiddleware(middleware.RoleHR))
	{
		records.GET("/:recordID/payslip/download", handler.DownloadPayslip)
	}
}
