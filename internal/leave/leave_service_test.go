package leave_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-workforce/internal/leave"
	leaveerrors "go-workforce/internal/leave/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	withTxFn                    func(tx *sql.Tx) leave.Repository
	createRequestFn             func(ctx context.Context, req *leave.LeaveRequest) error
	updateRequestFn             func(ctx context.Context, req *leave.LeaveRequest) error
	findRequestByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*leave.LeaveRequest, error)
	findAllByCompanyFn          func(ctx context.Context, companyID string) ([]leave.LeaveRequest, error)
	findAllByEmployeeFn         func(ctx context.Context, companyID, employeeID string) ([]leave.LeaveRequest, error)
	findLeaveTypeFn             func(ctx context.Context, companyID, id string) (*leave.LeaveType, error)
	findBalanceFn               func(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (*leave.LeaveBalance, error)
	findBalancesByEmployeeFn    func(ctx context.Context, companyID, employeeID string, year int) ([]leave.LeaveBalance, error)
	updateBalanceWithRevisionFn func(ctx context.Context, b *leave.LeaveBalance) error
	appendActivityFn            func(ctx context.Context, a *leave.LeaveActivity) error
	findActivitiesByRequestFn   func(ctx context.Context, companyID, requestID string) ([]leave.LeaveActivity, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) CreateRequest(ctx context.Context, req *leave.LeaveRequest) error {
	if f.createRequestFn != nil {
		return f.createRequestFn(ctx, req)
	}
	return nil
}

func (f *fakeLeaveRepository) UpdateRequest(ctx context.Context, req *leave.LeaveRequest) error {
	if f.updateRequestFn != nil {
		return f.updateRequestFn(ctx, req)
	}
	return nil
}

func (f *fakeLeaveRepository) FindRequestByIDAndCompany(ctx context.Context, companyID, id string) (*leave.LeaveRequest, error) {
	if f.findRequestByIDAndCompanyFn != nil {
		return f.findRequestByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindAllByCompany(ctx context.Context, companyID string) ([]leave.LeaveRequest, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]leave.LeaveRequest, error) {
	if f.findAllByEmployeeFn != nil {
		return f.findAllByEmployeeFn(ctx, companyID, employeeID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindLeaveTypeByIDAndCompany(ctx context.Context, companyID, id string) (*leave.LeaveType, error) {
	if f.findLeaveTypeFn != nil {
		return f.findLeaveTypeFn(ctx, companyID, id)
	}
	return &leave.LeaveType{ID: uuid.MustParse(id), CompanyID: uuid.MustParse(companyID), Name: "Annual", AllowHourly: true}, nil
}

func (f *fakeLeaveRepository) FindBalance(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (*leave.LeaveBalance, error) {
	if f.findBalanceFn != nil {
		return f.findBalanceFn(ctx, companyID, employeeID, leaveTypeID, year)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindBalancesByEmployee(ctx context.Context, companyID, employeeID string, year int) ([]leave.LeaveBalance, error) {
	if f.findBalancesByEmployeeFn != nil {
		return f.findBalancesByEmployeeFn(ctx, companyID, employeeID, year)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) UpdateBalanceWithRevision(ctx context.Context, b *leave.LeaveBalance) error {
	if f.updateBalanceWithRevisionFn != nil {
		return f.updateBalanceWithRevisionFn(ctx, b)
	}
	return nil
}

func (f *fakeLeaveRepository) AppendActivity(ctx context.Context, a *leave.LeaveActivity) error {
	if f.appendActivityFn != nil {
		return f.appendActivityFn(ctx, a)
	}
	return nil
}

func (f *fakeLeaveRepository) FindActivitiesByRequest(ctx context.Context, companyID, requestID string) ([]leave.LeaveActivity, error) {
	if f.findActivitiesByRequestFn != nil {
		return f.findActivitiesByRequestFn(ctx, companyID, requestID)
	}
	return nil, nil
}

type leaveServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leave.Service
	repo    *fakeLeaveRepository
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	svc := leave.NewService(db, repo)

	return &leaveServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func openBalance(companyID, employeeID, leaveTypeID string, year int, opening int64) *leave.LeaveBalance {
	return &leave.LeaveBalance{
		ID:             uuid.New(),
		CompanyID:      uuid.MustParse(companyID),
		EmployeeID:     uuid.MustParse(employeeID),
		LeaveTypeID:    uuid.MustParse(leaveTypeID),
		Year:           year,
		OpeningBalance: decimal.NewFromInt(opening),
	}
}

func TestLeaveService_Create_ReservesPending(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	leaveTypeID := uuid.New().String()

	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)
	deps.repo.findBalanceFn = func(ctx context.Context, cid, eid, ltid string, year int) (*leave.LeaveBalance, error) {
		assert.Equal(t, 2026, year)
		return openBalance(cid, eid, ltid, year, 10), nil
	}
	var savedBalance *leave.LeaveBalance
	deps.repo.updateBalanceWithRevisionFn = func(ctx context.Context, b *leave.LeaveBalance) error {
		savedBalance = b
		return nil
	}
	var created *leave.LeaveRequest
	deps.repo.createRequestFn = func(ctx context.Context, req *leave.LeaveRequest) error {
		created = req
		return nil
	}
	var activity *leave.LeaveActivity
	deps.repo.appendActivityFn = func(ctx context.Context, a *leave.LeaveActivity) error {
		activity = a
		return nil
	}

	resp, err := deps.service.Create(ctx, companyID, employeeID, leave.CreateLeaveRequest{
		LeaveTypeID: leaveTypeID,
		StartDate:   "2026-03-02",
		EndDate:     "2026-03-04",
		Reason:      "family trip",
	})

	assert.NoError(t, err)
	assert.Equal(t, leave.StatusPendingManager, resp.Status)
	assert.Equal(t, "3.00", resp.TotalDays)
	if assert.NotNil(t, savedBalance) {
		assert.True(t, savedBalance.Pending.Equal(decimal.NewFromInt(3)))
	}
	if assert.NotNil(t, created) {
		assert.False(t, created.Hourly)
	}
	if assert.NotNil(t, activity) {
		assert.Equal(t, leave.ActionSubmit, activity.Action)
		assert.Equal(t, leave.StatusPendingManager, activity.NewStatus)
	}
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestLeaveService_Create_HourlySameDay(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	leaveTypeID := uuid.New().String()
	start := "09:00"
	end := "13:30"

	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)
	deps.repo.findBalanceFn = func(ctx context.Context, cid, eid, ltid string, year int) (*leave.LeaveBalance, error) {
		return openBalance(cid, eid, ltid, year, 40), nil
	}
	var savedBalance *leave.LeaveBalance
	deps.repo.updateBalanceWithRevisionFn = func(ctx context.Context, b *leave.LeaveBalance) error {
		savedBalance = b
		return nil
	}

	resp, err := deps.service.Create(ctx, companyID, employeeID, leave.CreateLeaveRequest{
		LeaveTypeID: leaveTypeID,
		StartDate:   "2026-03-02",
		EndDate:     "2026-03-02",
		StartTime:   &start,
		EndTime:     &end,
	})

	assert.NoError(t, err)
	assert.True(t, resp.Hourly)
	assert.Equal(t, "4.50", resp.TotalHours)
	if assert.NotNil(t, savedBalance) {
		assert.True(t, savedBalance.Pending.Equal(decimal.NewFromFloat(4.5)))
	}
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestLeaveService_Create_HourlySpanningDaysRejected(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	leaveTypeID := uuid.New().String()
	start := "09:00"
	end := "13:00"

	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	_, err := deps.service.Create(ctx, companyID, employeeID, leave.CreateLeaveRequest{
		LeaveTypeID: leaveTypeID,
		StartDate:   "2026-03-02",
		EndDate:     "2026-03-03",
		StartTime:   &start,
		EndTime:     &end,
	})

	assert.ErrorIs(t, err, leaveerrors.ErrInvalidTimeRange)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestLeaveService_Create_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	leaveTypeID := uuid.New().String()

	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)
	deps.repo.findBalanceFn = func(ctx context.Context, cid, eid, ltid string, year int) (*leave.LeaveBalance, error) {
		b := openBalance(cid, eid, ltid, year, 10)
		b.Used = decimal.NewFromInt(8)
		return b, nil
	}
	deps.repo.createRequestFn = func(ctx context.Context, req *leave.LeaveRequest) error {
		t.Fatal("request must not be created when the balance check fails")
		return nil
	}

	_, err := deps.service.Create(ctx, companyID, employeeID, leave.CreateLeaveRequest{
		LeaveTypeID: leaveTypeID,
		StartDate:   "2026-03-02",
		EndDate:     "2026-03-04",
	})

	assert.ErrorIs(t, err, leaveerrors.ErrInsufficientBalance)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestLeaveService_Create_RetriesBalanceConflict(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	leaveTypeID := uuid.New().String()

	t.Run("conflict then success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findBalanceFn = func(ctx context.Context, cid, eid, ltid string, year int) (*leave.LeaveBalance, error) {
			return openBalance(cid, eid, ltid, year, 10), nil
		}
		attempts := 0
		deps.repo.updateBalanceWithRevisionFn = func(ctx context.Context, b *leave.LeaveBalance) error {
			attempts++
			if attempts < 3 {
				return leaveerrors.ErrBalanceConflict
			}
			return nil
		}

		_, err := deps.service.Create(ctx, companyID, employeeID, leave.CreateLeaveRequest{
			LeaveTypeID: leaveTypeID,
			StartDate:   "2026-03-02",
			EndDate:     "2026-03-04",
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, attempts)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("conflict exhausts retries", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findBalanceFn = func(ctx context.Context, cid, eid, ltid string, year int) (*leave.LeaveBalance, error) {
			return openBalance(cid, eid, ltid, year, 10), nil
		}
		attempts := 0
		deps.repo.updateBalanceWithRevisionFn = func(ctx context.Context, b *leave.LeaveBalance) error {
			attempts++
			return leaveerrors.ErrBalanceConflict
		}

		_, err := deps.service.Create(ctx, companyID, employeeID, leave.CreateLeaveRequest{
			LeaveTypeID: leaveTypeID,
			StartDate:   "2026-03-02",
			EndDate:     "2026-03-04",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrBalanceConflict)
		assert.Equal(t, 3, attempts)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func pendingRequest(companyID, employeeID string, status string, days int64) *leave.LeaveRequest {
	return &leave.LeaveRequest{
		ID:          uuid.New(),
		CompanyID:   uuid.MustParse(companyID),
		EmployeeID:  uuid.MustParse(employeeID),
		LeaveTypeID: uuid.New(),
		StartDate:   mustDate("2026-03-02"),
		EndDate:     mustDate("2026-03-04"),
		TotalDays:   decimal.NewFromInt(days),
		Status:      status,
	}
}

func mustDate(v string) (t time.Time) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		panic(err)
	}
	return t
}

func TestLeaveService_ManagerApprove_KeepsReservation(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	managerID := uuid.New().String()

	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)
	req := pendingRequest(companyID, employeeID, leave.StatusPendingManager, 3)
	deps.repo.findRequestByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
		return req, nil
	}
	deps.repo.updateBalanceWithRevisionFn = func(ctx context.Context, b *leave.LeaveBalance) error {
		t.Fatal("manager approval must not touch the balance")
		return nil
	}

	resp, err := deps.service.ManagerApprove(ctx, companyID, managerID, req.ID.String(), nil)

	assert.NoError(t, err)
	assert.Equal(t, leave.StatusPendingHR, resp.Status)
	if assert.NotNil(t, resp.ManagerApprovalStatus) {
		assert.Equal(t, leave.ApprovalApproved, *resp.ManagerApprovalStatus)
	}
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestLeaveService_HRApprove_ConvertsPendingToUsed(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	hrID := uuid.New().String()

	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)
	req := pendingRequest(companyID, employeeID, leave.StatusPendingHR, 3)
	deps.repo.findRequestByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
		return req, nil
	}
	deps.repo.findBalanceFn = func(ctx context.Context, cid, eid, ltid string, year int) (*leave.LeaveBalance, error) {
		b := openBalance(cid, eid, ltid, year, 10)
		b.Pending = decimal.NewFromInt(3)
		return b, nil
	}
	var savedBalance *leave.LeaveBalance
	deps.repo.updateBalanceWithRevisionFn = func(ctx context.Context, b *leave.LeaveBalance) error {
		savedBalance = b
		return nil
	}

	resp, err := deps.service.HRApprove(ctx, companyID, hrID, req.ID.String(), nil)

	assert.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, resp.Status)
	if assert.NotNil(t, savedBalance) {
		assert.True(t, savedBalance.Pending.IsZero())
		assert.True(t, savedBalance.Used.Equal(decimal.NewFromInt(3)))
	}
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestLeaveService_HRReject_ReleasesPending(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	hrID := uuid.New().String()

	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)
	req := pendingRequest(companyID, employeeID, leave.StatusPendingHR, 3)
	deps.repo.findRequestByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
		return req, nil
	}
	deps.repo.findBalanceFn = func(ctx context.Context, cid, eid, ltid string, year int) (*leave.LeaveBalance, error) {
		b := openBalance(cid, eid, ltid, year, 10)
		b.Pending = decimal.NewFromInt(3)
		return b, nil
	}
	var savedBalance *leave.LeaveBalance
	deps.repo.updateBalanceWithRevisionFn = func(ctx context.Context, b *leave.LeaveBalance) error {
		savedBalance = b
		return nil
	}

	resp, err := deps.service.HRReject(ctx, companyID, hrID, req.ID.String(), "policy conflict")

	assert.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, resp.Status)
	if assert.NotNil(t, savedBalance) {
		assert.True(t, savedBalance.Pending.IsZero())
		assert.True(t, savedBalance.Used.IsZero())
	}
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestLeaveService_Reject_RequiresRemarks(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	hrID := uuid.New().String()

	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.HRReject(ctx, companyID, hrID, uuid.New().String(), "")
	assert.ErrorIs(t, err, leaveerrors.ErrRemarksRequired)

	_, err = deps.service.ManagerReject(ctx, companyID, hrID, uuid.New().String(), "")
	assert.ErrorIs(t, err, leaveerrors.ErrRemarksRequired)
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("requester cancels and pending is released", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := pendingRequest(companyID, employeeID, leave.StatusPendingManager, 3)
		deps.repo.findRequestByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return req, nil
		}
		deps.repo.findBalanceFn = func(ctx context.Context, cid, eid, ltid string, year int) (*leave.LeaveBalance, error) {
			b := openBalance(cid, eid, ltid, year, 10)
			b.Pending = decimal.NewFromInt(3)
			return b, nil
		}
		var savedBalance *leave.LeaveBalance
		deps.repo.updateBalanceWithRevisionFn = func(ctx context.Context, b *leave.LeaveBalance) error {
			savedBalance = b
			return nil
		}

		resp, err := deps.service.Cancel(ctx, companyID, employeeID, req.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusCancelled, resp.Status)
		if assert.NotNil(t, savedBalance) {
			assert.True(t, savedBalance.Pending.IsZero())
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("only the requester may cancel", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := pendingRequest(companyID, employeeID, leave.StatusPendingManager, 3)
		deps.repo.findRequestByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return req, nil
		}

		_, err := deps.service.Cancel(ctx, companyID, uuid.New().String(), req.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrNotRequester)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approved requests cannot be cancelled", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := pendingRequest(companyID, employeeID, leave.StatusApproved, 3)
		deps.repo.findRequestByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return req, nil
		}

		_, err := deps.service.Cancel(ctx, companyID, employeeID, req.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStateTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_ManagerApprove_InvalidFromPendingHR(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	managerID := uuid.New().String()

	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)
	req := pendingRequest(companyID, employeeID, leave.StatusPendingHR, 3)
	deps.repo.findRequestByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
		return req, nil
	}

	_, err := deps.service.ManagerApprove(ctx, companyID, managerID, req.ID.String(), nil)

	assert.ErrorIs(t, err, leaveerrors.ErrInvalidStateTransition)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}
