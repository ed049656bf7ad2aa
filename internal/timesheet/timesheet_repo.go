package timesheet

import (
	"context"
	"database/sql"
	"time"

	"go-workforce/internal/shared/connection"
	"go-workforce/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=timesheet_repo.go -destination=mock/timesheet_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Timesheet, error)
	FindByEmployeePeriod(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) (*Timesheet, error)
	FindAll(ctx context.Context, companyID string, filter QueryFilter) ([]Timesheet, error)
	Update(ctx context.Context, t *Timesheet) error

	// ReplaceForEmployeePeriod deletes any existing row for the same
	// employee and period and inserts the rebuilt one. Run inside the
	// caller's transaction so regeneration is atomic.
	ReplaceForEmployeePeriod(ctx context.Context, t *Timesheet) error
	DeleteForEmployeePeriod(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) error

	FindActiveEmployees(ctx context.Context, companyID string) ([]EmployeeRef, error)
	FindApprovedAttendance(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) ([]AttendanceRow, error)
	FindApprovedLeave(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) ([]LeaveRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository whose queries run on the caller's
// transaction, which is what makes ReplaceForEmployeePeriod's
// delete+insert atomic.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.TxSession(r.db, tx)}
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Timesheet, error) {
	var t Timesheet
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) FindByEmployeePeriod(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) (*Timesheet, error) {
	var t Timesheet
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("period_start = ? AND period_end = ?", periodStart, periodEnd).
		First(&t).Error
	return &t, err
}

func (r *repository) FindAll(ctx context.Context, companyID string, filter QueryFilter) ([]Timesheet, error) {
	q := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID))
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PeriodStart != "" {
		q = q.Where("period_start >= ?", filter.PeriodStart)
	}
	if filter.PeriodEnd != "" {
		q = q.Where("period_end <= ?", filter.PeriodEnd)
	}

	var rows []Timesheet
	err := q.Order("period_start DESC, employee_id ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, t *Timesheet) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *repository) ReplaceForEmployeePeriod(ctx context.Context, t *Timesheet) error {
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND employee_id = ?", t.CompanyID, t.EmployeeID).
		Where("period_start = ? AND period_end = ?", t.PeriodStart, t.PeriodEnd).
		Delete(&Timesheet{}).Error
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) DeleteForEmployeePeriod(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) error {
	return r.db.WithContext(ctx).
		Where("company_id = ? AND employee_id = ?", companyID, employeeID).
		Where("period_start = ? AND period_end = ?", periodStart, periodEnd).
		Delete(&Timesheet{}).Error
}

func (r *repository) FindActiveEmployees(ctx context.Context, companyID string) ([]EmployeeRef, error) {
	var rows []EmployeeRef
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", "ACTIVE").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindApprovedAttendance(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) ([]AttendanceRow, error) {
	var rows []AttendanceRow
	err := r.db.WithContext(ctx).
		Table("attendance_records").
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("approval_status = ?", "APPROVED").
		Where("attendance_date BETWEEN ? AND ?", periodStart, periodEnd).
		Where("deleted_at IS NULL").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindApprovedLeave(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) ([]LeaveRow, error) {
	var rows []LeaveRow
	err := r.db.WithContext(ctx).
		Table("leave_requests").
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("status = ?", "APPROVED").
		Where("start_date <= ? AND end_date >= ?", periodEnd, periodStart).
		Where("deleted_at IS NULL").
		Find(&rows).Error
	return rows, err
}
