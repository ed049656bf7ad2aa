package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-workforce/internal/shared/connection"
	"go-workforce/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rec *AttendanceRecord) error
	Update(ctx context.Context, rec *AttendanceRecord) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*AttendanceRecord, error)
	FindOpenByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*AttendanceRecord, error)
	FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*AttendanceRecord, error)
	FindAllByCompany(ctx context.Context, companyID string, filter QueryFilter) ([]AttendanceRecord, error)
	FindAllByEmployee(ctx context.Context, companyID, employeeID string, filter QueryFilter) ([]AttendanceRecord, error)
	ResolveRuleForEmployee(ctx context.Context, companyID, employeeID string) (*AttendanceRule, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository whose queries run on the caller's
// transaction.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.TxSession(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, rec *AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) Update(ctx context.Context, rec *AttendanceRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&rec, "id = ?", id).Error
	return &rec, err
}

func (r *repository) FindOpenByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", date.Format("2006-01-02")).
		Where("clock_in IS NOT NULL").
		Where("clock_out IS NULL").
		First(&rec).Error
	return &rec, err
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", date.Format("2006-01-02")).
		First(&rec).Error
	return &rec, err
}

func applyFilter(db *gorm.DB, filter QueryFilter) *gorm.DB {
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.DateFrom != "" {
		db = db.Where("attendance_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		db = db.Where("attendance_date <= ?", filter.DateTo)
	}
	return db
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter QueryFilter) ([]AttendanceRecord, error) {
	var rows []AttendanceRecord
	db := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID))
	err := applyFilter(db, filter).
		Order("attendance_date DESC, created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, companyID, employeeID string, filter QueryFilter) ([]AttendanceRecord, error) {
	filter.EmployeeID = employeeID
	return r.FindAllByCompany(ctx, companyID, filter)
}

// ResolveRuleForEmployee returns the employee's assigned rule when one is
// set, otherwise the company default.
func (r *repository) ResolveRuleForEmployee(ctx context.Context, companyID, employeeID string) (*AttendanceRule, error) {
	var ref EmployeeRef
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		First(&ref, "id = ?", employeeID).Error
	if err != nil {
		return nil, err
	}

	var rule AttendanceRule
	if ref.AttendanceRuleID != nil {
		err = r.db.WithContext(ctx).
			Scopes(tenant.Scope(companyID)).
			First(&rule, "id = ?", ref.AttendanceRuleID).Error
		if err == nil {
			return &rule, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	err = r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("is_default = ?", true).
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}
