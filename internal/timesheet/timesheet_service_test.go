package timesheet_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-workforce/internal/timesheet"
	timesheeterrors "go-workforce/internal/timesheet/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeTimesheetRepository struct {
	withTxFn                   func(tx *sql.Tx) timesheet.Repository
	findByIDAndCompanyFn       func(ctx context.Context, companyID, id string) (*timesheet.Timesheet, error)
	findByEmployeePeriodFn     func(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) (*timesheet.Timesheet, error)
	findAllFn                  func(ctx context.Context, companyID string, filter timesheet.QueryFilter) ([]timesheet.Timesheet, error)
	updateFn                   func(ctx context.Context, t *timesheet.Timesheet) error
	replaceForEmployeePeriodFn func(ctx context.Context, t *timesheet.Timesheet) error
	deleteForEmployeePeriodFn  func(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) error
	findActiveEmployeesFn      func(ctx context.Context, companyID string) ([]timesheet.EmployeeRef, error)
	findApprovedAttendanceFn   func(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) ([]timesheet.AttendanceRow, error)
	findApprovedLeaveFn        func(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) ([]timesheet.LeaveRow, error)
}

func (f *fakeTimesheetRepository) WithTx(tx *sql.Tx) timesheet.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeTimesheetRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*timesheet.Timesheet, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTimesheetRepository) FindByEmployeePeriod(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) (*timesheet.Timesheet, error) {
	if f.findByEmployeePeriodFn != nil {
		return f.findByEmployeePeriodFn(ctx, companyID, employeeID, periodStart, periodEnd)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTimesheetRepository) FindAll(ctx context.Context, companyID string, filter timesheet.QueryFilter) ([]timesheet.Timesheet, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, companyID, filter)
	}
	return nil, nil
}

func (f *fakeTimesheetRepository) Update(ctx context.Context, t *timesheet.Timesheet) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, t)
	}
	return nil
}

func (f *fakeTimesheetRepository) ReplaceForEmployeePeriod(ctx context.Context, t *timesheet.Timesheet) error {
	if f.replaceForEmployeePeriodFn != nil {
		return f.replaceForEmployeePeriodFn(ctx, t)
	}
	return nil
}

func (f *fakeTimesheetRepository) DeleteForEmployeePeriod(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) error {
	if f.deleteForEmployeePeriodFn != nil {
		return f.deleteForEmployeePeriodFn(ctx, companyID, employeeID, periodStart, periodEnd)
	}
	return nil
}

func (f *fakeTimesheetRepository) FindActiveEmployees(ctx context.Context, companyID string) ([]timesheet.EmployeeRef, error) {
	if f.findActiveEmployeesFn != nil {
		return f.findActiveEmployeesFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeTimesheetRepository) FindApprovedAttendance(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) ([]timesheet.AttendanceRow, error) {
	if f.findApprovedAttendanceFn != nil {
		return f.findApprovedAttendanceFn(ctx, companyID, employeeID, periodStart, periodEnd)
	}
	return nil, nil
}

func (f *fakeTimesheetRepository) FindApprovedLeave(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) ([]timesheet.LeaveRow, error) {
	if f.findApprovedLeaveFn != nil {
		return f.findApprovedLeaveFn(ctx, companyID, employeeID, periodStart, periodEnd)
	}
	return nil, nil
}

type timesheetServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service timesheet.Service
	repo    *fakeTimesheetRepository
}

func setupTimesheetServiceTest(t *testing.T) *timesheetServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeTimesheetRepository{}
	svc := timesheet.NewService(db, repo)

	return &timesheetServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo}
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

func mustDate(v string) time.Time {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		panic(err)
	}
	return t
}

func TestTimesheetService_Generate_AggregatesSourceRows(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	deps := setupTimesheetServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)
	deps.repo.findApprovedAttendanceFn = func(ctx context.Context, cid, eid string, ps, pe time.Time) ([]timesheet.AttendanceRow, error) {
		return []timesheet.AttendanceRow{
			{EmployeeID: uuid.MustParse(eid), AttendanceDate: mustDate("2026-03-02"), Status: "PRESENT", RegularHours: decimal.NewFromInt(8), OvertimeHours: decimal.NewFromFloat(1.5)},
			{EmployeeID: uuid.MustParse(eid), AttendanceDate: mustDate("2026-03-03"), Status: "LATE", RegularHours: decimal.NewFromInt(8), OvertimeHours: decimal.Zero},
			{EmployeeID: uuid.MustParse(eid), AttendanceDate: mustDate("2026-03-04"), Status: "HALF_DAY", RegularHours: decimal.NewFromFloat(3.5), OvertimeHours: decimal.Zero},
			{EmployeeID: uuid.MustParse(eid), AttendanceDate: mustDate("2026-03-05"), Status: "ABSENT"},
		}, nil
	}
	deps.repo.findApprovedLeaveFn = func(ctx context.Context, cid, eid string, ps, pe time.Time) ([]timesheet.LeaveRow, error) {
		// Starts before the period; only the in-period days count.
		return []timesheet.LeaveRow{
			{EmployeeID: uuid.MustParse(eid), StartDate: mustDate("2026-02-27"), EndDate: mustDate("2026-03-02")},
		}, nil
	}
	var replaced *timesheet.Timesheet
	deps.repo.replaceForEmployeePeriodFn = func(ctx context.Context, ts *timesheet.Timesheet) error {
		replaced = ts
		return nil
	}

	resp, err := deps.service.Generate(ctx, companyID, actorID, timesheet.GenerateRequest{
		PeriodStart: "2026-03-01",
		PeriodEnd:   "2026-03-15",
		EmployeeIDs: []string{employeeID},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Generated)
	assert.Equal(t, 0, resp.Skipped)
	if assert.NotNil(t, replaced) {
		assert.Equal(t, timesheet.StatusGenerated, replaced.Status)
		assert.Equal(t, 2, replaced.PresentDays)
		assert.Equal(t, 1, replaced.AbsentDays)
		assert.Equal(t, 1, replaced.HalfDays)
		assert.Equal(t, 1, replaced.LateDays)
		assert.Equal(t, "19.50", replaced.TotalRegularHours.StringFixed(2))
		assert.Equal(t, "1.50", replaced.TotalOvertimeHours.StringFixed(2))
		assert.Equal(t, "2.00", replaced.LeaveDays.StringFixed(2))
	}
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestTimesheetService_Generate_HourlyLeaveCountsAsHours(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	deps := setupTimesheetServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)
	deps.repo.findApprovedLeaveFn = func(ctx context.Context, cid, eid string, ps, pe time.Time) ([]timesheet.LeaveRow, error) {
		return []timesheet.LeaveRow{
			{EmployeeID: uuid.MustParse(eid), StartDate: mustDate("2026-03-02"), EndDate: mustDate("2026-03-02"), Hourly: true, TotalHours: decimal.NewFromFloat(4.5)},
		}, nil
	}

	resp, err := deps.service.Generate(ctx, companyID, actorID, timesheet.GenerateRequest{
		PeriodStart: "2026-03-01",
		PeriodEnd:   "2026-03-15",
		EmployeeIDs: []string{employeeID},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Generated)
	if assert.Len(t, resp.Timesheets, 1) {
		assert.Equal(t, "4.50", resp.Timesheets[0].LeaveHours)
		assert.Equal(t, "0.00", resp.Timesheets[0].LeaveDays)
	}
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestTimesheetService_Generate_SkipsEmptyAndDeletesStaleDraft(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	deps := setupTimesheetServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)
	deleted := false
	deps.repo.deleteForEmployeePeriodFn = func(ctx context.Context, cid, eid string, ps, pe time.Time) error {
		deleted = true
		return nil
	}
	deps.repo.replaceForEmployeePeriodFn = func(ctx context.Context, ts *timesheet.Timesheet) error {
		t.Fatal("no timesheet should be written without source rows")
		return nil
	}

	resp, err := deps.service.Generate(ctx, companyID, actorID, timesheet.GenerateRequest{
		PeriodStart: "2026-03-01",
		PeriodEnd:   "2026-03-15",
		EmployeeIDs: []string{employeeID},
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, resp.Generated)
	assert.Equal(t, 1, resp.Skipped)
	assert.True(t, deleted)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestTimesheetService_Generate_ApprovedTimesheetIsLocked(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	lockedEmployee := uuid.New().String()
	freshEmployee := uuid.New().String()

	deps := setupTimesheetServiceTest(t)
	defer deps.db.Close()

	// The locked employee rolls back, the fresh one commits.
	expectTx(t, deps.sqlMock, false)
	expectTx(t, deps.sqlMock, true)

	deps.repo.findByEmployeePeriodFn = func(ctx context.Context, cid, eid string, ps, pe time.Time) (*timesheet.Timesheet, error) {
		if eid == lockedEmployee {
			return &timesheet.Timesheet{ID: uuid.New(), Status: timesheet.StatusApproved}, nil
		}
		return nil, gorm.ErrRecordNotFound
	}
	deps.repo.findApprovedAttendanceFn = func(ctx context.Context, cid, eid string, ps, pe time.Time) ([]timesheet.AttendanceRow, error) {
		return []timesheet.AttendanceRow{
			{EmployeeID: uuid.MustParse(eid), AttendanceDate: mustDate("2026-03-02"), Status: "PRESENT", RegularHours: decimal.NewFromInt(8)},
		}, nil
	}

	resp, err := deps.service.Generate(ctx, companyID, actorID, timesheet.GenerateRequest{
		PeriodStart: "2026-03-01",
		PeriodEnd:   "2026-03-15",
		EmployeeIDs: []string{lockedEmployee, freshEmployee},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Generated)
	assert.Equal(t, 1, resp.Skipped)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestTimesheetService_Generate_NoActiveEmployees(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	deps := setupTimesheetServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.Generate(ctx, companyID, actorID, timesheet.GenerateRequest{
		PeriodStart: "2026-03-01",
		PeriodEnd:   "2026-03-15",
	})

	assert.ErrorIs(t, err, timesheeterrors.ErrNoEmployees)
}

func TestTimesheetService_Review(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	reviewerID := uuid.New().String()
	timesheetID := uuid.New().String()

	t.Run("approve from generated", func(t *testing.T) {
		deps := setupTimesheetServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
			return &timesheet.Timesheet{
				ID:        uuid.MustParse(id),
				CompanyID: uuid.MustParse(cid),
				Status:    timesheet.StatusGenerated,
			}, nil
		}

		resp, err := deps.service.Approve(ctx, companyID, reviewerID, timesheetID)

		assert.NoError(t, err)
		assert.Equal(t, timesheet.StatusApproved, resp.Status)
		assert.NotNil(t, resp.ReviewedBy)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approve from approved is invalid", func(t *testing.T) {
		deps := setupTimesheetServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
			return &timesheet.Timesheet{ID: uuid.MustParse(id), Status: timesheet.StatusApproved}, nil
		}

		_, err := deps.service.Approve(ctx, companyID, reviewerID, timesheetID)

		assert.ErrorIs(t, err, timesheeterrors.ErrInvalidStateTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("reject requires remarks", func(t *testing.T) {
		deps := setupTimesheetServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Reject(ctx, companyID, reviewerID, timesheetID, "")

		assert.ErrorIs(t, err, timesheeterrors.ErrRemarksRequired)
	})

	t.Run("reject from generated", func(t *testing.T) {
		deps := setupTimesheetServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
			return &timesheet.Timesheet{ID: uuid.MustParse(id), CompanyID: uuid.MustParse(cid), Status: timesheet.StatusGenerated}, nil
		}

		resp, err := deps.service.Reject(ctx, companyID, reviewerID, timesheetID, "hours look wrong")

		assert.NoError(t, err)
		assert.Equal(t, timesheet.StatusRejected, resp.Status)
		if assert.NotNil(t, resp.Remarks) {
			assert.Equal(t, "hours look wrong", *resp.Remarks)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
