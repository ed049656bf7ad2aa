package payroll

import (
	"context"
	"database/sql"
	"time"

	"go-workforce/internal/shared/connection"
	"go-workforce/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateRun(ctx context.Context, run *PayrollRun) error
	UpdateRun(ctx context.Context, run *PayrollRun) error
	FindRunByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollRun, error)
	FindAllRuns(ctx context.Context, companyID string) ([]PayrollRun, error)
	HasOverlappingRun(ctx context.Context, companyID string, periodStart, periodEnd time.Time, excludeID *string) (bool, error)

	// UpdateRunStatusIf is the compare-and-swap behind every run
	// transition: the write lands only when the row still holds the
	// expected status.
	UpdateRunStatusIf(ctx context.Context, companyID, id, from, to string) (bool, error)

	ReplaceRecordsForRun(ctx context.Context, runID string, records []PayrollRecord) error
	DeleteRecordsByRun(ctx context.Context, runID string) error
	FindRecordsByRun(ctx context.Context, companyID, runID string) ([]PayrollRecord, error)
	FindRecordByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollRecord, error)
	UpdateRecord(ctx context.Context, rec *PayrollRecord) error

	FindApprovedTimesheets(ctx context.Context, companyID string, periodStart, periodEnd time.Time) ([]TimesheetRow, error)
	FindPayProfiles(ctx context.Context, companyID string, employeeIDs []string) ([]PayProfile, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository whose queries run on the caller's
// transaction, so record replacement, run totals and outbox inserts
// commit together.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.TxSession(r.db, tx)}
}

func (r *repository) CreateRun(ctx context.Context, run *PayrollRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *repository) UpdateRun(ctx context.Context, run *PayrollRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

func (r *repository) FindRunByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollRun, error) {
	var run PayrollRun
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&run, "id = ?", id).Error
	return &run, err
}

func (r *repository) FindAllRuns(ctx context.Context, companyID string) ([]PayrollRun, error) {
	var rows []PayrollRun
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("period_start DESC, run_number DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) HasOverlappingRun(ctx context.Context, companyID string, periodStart, periodEnd time.Time, excludeID *string) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&PayrollRun{}).
		Scopes(tenant.Scope(companyID)).
		Where("period_start <= ? AND period_end >= ?", periodEnd, periodStart)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) UpdateRunStatusIf(ctx context.Context, companyID, id, from, to string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&PayrollRun{}).
		Where("id = ? AND company_id = ? AND status = ?", id, companyID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ReplaceRecordsForRun(ctx context.Context, runID string, records []PayrollRecord) error {
	if err := r.DeleteRecordsByRun(ctx, runID); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(records, 100).Error
}

func (r *repository) DeleteRecordsByRun(ctx context.Context, runID string) error {
	return r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Delete(&PayrollRecord{}).Error
}

func (r *repository) FindRecordsByRun(ctx context.Context, companyID, runID string) ([]PayrollRecord, error) {
	var rows []PayrollRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("run_id = ?", runID).
		Order("employee_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindRecordByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollRecord, error) {
	var rec PayrollRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&rec, "id = ?", id).Error
	return &rec, err
}

func (r *repository) UpdateRecord(ctx context.Context, rec *PayrollRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *repository) FindApprovedTimesheets(ctx context.Context, companyID string, periodStart, periodEnd time.Time) ([]TimesheetRow, error) {
	var rows []TimesheetRow
	err := r.db.WithContext(ctx).
		Table("timesheets").
		Where("company_id = ?", companyID).
		Where("status = ?", "APPROVED").
		Where("period_start >= ? AND period_end <= ?", periodStart, periodEnd).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindPayProfiles(ctx context.Context, companyID string, employeeIDs []string) ([]PayProfile, error) {
	var rows []PayProfile
	err := r.db.WithContext(ctx).
		Table("employees").
		Select(`employees.id,
			employees.full_name,
			employees.pay_type,
			employees.hourly_rate,
			employees.annual_salary,
			employees.pay_frequency,
			employees.working_days_per_week,
			COALESCE(attendance_rules.overtime_multiplier, 1.5) AS overtime_multiplier,
			COALESCE(attendance_rules.regular_hours_per_day, 8) AS regular_hours_per_day`).
		Joins("LEFT JOIN attendance_rules ON attendance_rules.id = employees.attendance_rule_id").
		Where("employees.company_id = ?", companyID).
		Where("employees.id IN ?", employeeIDs).
		Find(&rows).Error
	return rows, err
}
