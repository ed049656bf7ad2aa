package app

import (
	"database/sql"
	"os"

	"go-workforce/internal/attendance"
	"go-workforce/internal/employee"
	"go-workforce/internal/leave"
	"go-workforce/internal/messaging/kafka"
	"go-workforce/internal/payroll"
	"go-workforce/internal/shared/counter"
	"go-workforce/internal/timesheet"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)
	timesheetRepo := timesheet.NewRepository(gormDB)

	// --- Services ---
	attendanceService := attendance.NewService(db, attendanceRepo)
	employeeService := employee.NewService(employeeRepo, rdb)
	leaveService := leave.NewService(db, leaveRepo)
	payrollService := payroll.NewServiceWithOutbox(db, payrollRepo, counterRepo, outboxRepo, taxPolicyFromEnv())
	timesheetService := timesheet.NewService(db, timesheetRepo)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService)
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandler(leaveService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)
	timesheetHandler := timesheet.NewHandler(timesheetService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		attendance.RegisterRoutes(api, attendanceHandler)
		employee.RegisterRoutes(api, employeeHandler)
		leave.RegisterRoutes(api, leaveHandler)
		payroll.RegisterRoutes(api, payrollHandler, rdb)
		timesheet.RegisterRoutes(api, timesheetHandler)
	}

	return nil
}

// taxPolicyFromEnv picks the run-wide withholding policy. Unset or
// unparseable configuration falls back to zero withholding.
func taxPolicyFromEnv() payroll.TaxPolicy {
	if os.Getenv("TAX_POLICY") != "FLAT_RATE" {
		return payroll.ZeroTaxPolicy{}
	}
	rate, err := decimal.NewFromString(os.Getenv("TAX_FLAT_RATE"))
	if err != nil || rate.IsNegative() {
		return payroll.ZeroTaxPolicy{}
	}
	return payroll.FlatRatePolicy{Rate: rate}
}
