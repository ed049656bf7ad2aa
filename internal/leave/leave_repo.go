package leave

import (
	"context"
	"database/sql"

	leaveerrors "go-workforce/internal/leave/errors"
	"go-workforce/internal/shared/connection"
	"go-workforce/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateRequest(ctx context.Context, req *LeaveRequest) error
	UpdateRequest(ctx context.Context, req *LeaveRequest) error
	FindRequestByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]LeaveRequest, error)
	FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveRequest, error)

	FindLeaveTypeByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveType, error)

	FindBalance(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (*LeaveBalance, error)
	FindBalancesByEmployee(ctx context.Context, companyID, employeeID string, year int) ([]LeaveBalance, error)
	UpdateBalanceWithRevision(ctx context.Context, b *LeaveBalance) error

	AppendActivity(ctx context.Context, a *LeaveActivity) error
	FindActivitiesByRequest(ctx context.Context, companyID, requestID string) ([]LeaveActivity, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository whose queries run on the caller's
// transaction, so request, balance and activity writes commit or roll
// back together.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.TxSession(r.db, tx)}
}

func (r *repository) CreateRequest(ctx context.Context, req *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) UpdateRequest(ctx context.Context, req *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *repository) FindRequestByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	var req LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("start_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindLeaveTypeByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveType, error) {
	var lt LeaveType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&lt, "id = ?", id).Error
	return &lt, err
}

func (r *repository) FindBalance(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("year = ?", year).
		First(&b).Error
	return &b, err
}

func (r *repository) FindBalancesByEmployee(ctx context.Context, companyID, employeeID string, year int) ([]LeaveBalance, error) {
	var rows []LeaveBalance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		Find(&rows).Error
	return rows, err
}

// UpdateBalanceWithRevision writes the mutated counters guarded by a
// compare-and-swap on Revision. Zero rows affected means another writer
// got there first; the caller reloads and retries.
func (r *repository) UpdateBalanceWithRevision(ctx context.Context, b *LeaveBalance) error {
	res := r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("id = ? AND revision = ?", b.ID, b.Revision).
		Updates(map[string]any{
			"used":     b.Used,
			"pending":  b.Pending,
			"lapsed":   b.Lapsed,
			"encashed": b.Encashed,
			"revision": b.Revision + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return leaveerrors.ErrBalanceConflict
	}
	b.Revision++
	return nil
}

func (r *repository) AppendActivity(ctx context.Context, a *LeaveActivity) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindActivitiesByRequest(ctx context.Context, companyID, requestID string) ([]LeaveActivity, error) {
	var rows []LeaveActivity
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("leave_request_id = ?", requestID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
