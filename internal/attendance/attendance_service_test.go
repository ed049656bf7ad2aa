package attendance_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-workforce/internal/attendance"
	attendanceerrors "go-workforce/internal/attendance/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeAttendanceRepository struct {
	withTxFn                    func(tx *sql.Tx) attendance.Repository
	createFn                    func(ctx context.Context, rec *attendance.AttendanceRecord) error
	updateFn                    func(ctx context.Context, rec *attendance.AttendanceRecord) error
	findByIDAndCompanyFn        func(ctx context.Context, companyID, id string) (*attendance.AttendanceRecord, error)
	findOpenByEmployeeAndDateFn func(ctx context.Context, companyID, employeeID string, date time.Time) (*attendance.AttendanceRecord, error)
	findByEmployeeAndDateFn     func(ctx context.Context, companyID, employeeID string, date time.Time) (*attendance.AttendanceRecord, error)
	findAllByCompanyFn          func(ctx context.Context, companyID string, filter attendance.QueryFilter) ([]attendance.AttendanceRecord, error)
	findAllByEmployeeFn         func(ctx context.Context, companyID, employeeID string, filter attendance.QueryFilter) ([]attendance.AttendanceRecord, error)
	resolveRuleForEmployeeFn    func(ctx context.Context, companyID, employeeID string) (*attendance.AttendanceRule, error)
}

func (f *fakeAttendanceRepository) WithTx(tx *sql.Tx) attendance.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeAttendanceRepository) Create(ctx context.Context, rec *attendance.AttendanceRecord) error {
	if f.createFn != nil {
		return f.createFn(ctx, rec)
	}
	return nil
}

func (f *fakeAttendanceRepository) Update(ctx context.Context, rec *attendance.AttendanceRecord) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, rec)
	}
	return nil
}

func (f *fakeAttendanceRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*attendance.AttendanceRecord, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceRepository) FindOpenByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*attendance.AttendanceRecord, error) {
	if f.findOpenByEmployeeAndDateFn != nil {
		return f.findOpenByEmployeeAndDateFn(ctx, companyID, employeeID, date)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceRepository) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*attendance.AttendanceRecord, error) {
	if f.findByEmployeeAndDateFn != nil {
		return f.findByEmployeeAndDateFn(ctx, companyID, employeeID, date)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceRepository) FindAllByCompany(ctx context.Context, companyID string, filter attendance.QueryFilter) ([]attendance.AttendanceRecord, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID, filter)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) FindAllByEmployee(ctx context.Context, companyID, employeeID string, filter attendance.QueryFilter) ([]attendance.AttendanceRecord, error) {
	if f.findAllByEmployeeFn != nil {
		return f.findAllByEmployeeFn(ctx, companyID, employeeID, filter)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) ResolveRuleForEmployee(ctx context.Context, companyID, employeeID string) (*attendance.AttendanceRule, error) {
	if f.resolveRuleForEmployeeFn != nil {
		return f.resolveRuleForEmployeeFn(ctx, companyID, employeeID)
	}
	rule := standardRule()
	return &rule, nil
}

type attendanceServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service attendance.Service
	repo    *fakeAttendanceRepository
}

func setupAttendanceServiceTest(t *testing.T) *attendanceServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeAttendanceRepository{}
	svc := attendance.NewService(db, repo)

	return &attendanceServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo}
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

func TestAttendanceService_ClockIn_RejectsExistingRecord(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("open record", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, cid, eid string, date time.Time) (*attendance.AttendanceRecord, error) {
			now := time.Now()
			return &attendance.AttendanceRecord{ID: uuid.New(), ClockIn: &now}, nil
		}

		_, err := deps.service.ClockIn(ctx, companyID, employeeID, attendance.ClockInRequest{})

		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyClockedIn)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("closed record for the same date", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, cid, eid string, date time.Time) (*attendance.AttendanceRecord, error) {
			in := time.Now().Add(-9 * time.Hour)
			out := time.Now().Add(-time.Hour)
			return &attendance.AttendanceRecord{
				ID:       uuid.New(),
				ClockIn:  &in,
				ClockOut: &out,
				Status:   attendance.StatusPresent,
			}, nil
		}

		_, err := deps.service.ClockIn(ctx, companyID, employeeID, attendance.ClockInRequest{})

		assert.ErrorIs(t, err, attendanceerrors.ErrDateAlreadyRecorded)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestAttendanceService_ClockIn_CreatesPendingRecord(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	deps := setupAttendanceServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)
	var created *attendance.AttendanceRecord
	deps.repo.createFn = func(ctx context.Context, rec *attendance.AttendanceRecord) error {
		created = rec
		return nil
	}

	resp, err := deps.service.ClockIn(ctx, companyID, employeeID, attendance.ClockInRequest{})

	assert.NoError(t, err)
	if assert.NotNil(t, created) {
		assert.NotNil(t, created.ClockIn)
		assert.Nil(t, created.ClockOut)
		assert.Equal(t, attendance.ApprovalPending, created.ApprovalStatus)
	}
	assert.Equal(t, attendance.ApprovalPending, resp.ApprovalStatus)
	assert.Equal(t, "WEB", resp.CaptureMethod)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestAttendanceService_ClockOut_NoOpenRecord(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	deps := setupAttendanceServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	_, err := deps.service.ClockOut(ctx, companyID, employeeID)

	assert.ErrorIs(t, err, attendanceerrors.ErrNoOpenRecord)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestAttendanceService_ManualEntry_ComputesHoursFromTimes(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	deps := setupAttendanceServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)
	clockIn := "09:00"
	clockOut := "19:30"

	resp, err := deps.service.ManualEntry(ctx, companyID, actorID, attendance.ManualEntryRequest{
		EmployeeID: employeeID,
		Date:       "2026-03-02",
		ClockIn:    &clockIn,
		ClockOut:   &clockOut,
	})

	assert.NoError(t, err)
	assert.Equal(t, "8.00", resp.RegularHours)
	assert.Equal(t, "1.50", resp.OvertimeHours)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
	assert.Equal(t, "MANUAL", resp.CaptureMethod)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestAttendanceService_ManualEntry_HalfDayBelowThreshold(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	deps := setupAttendanceServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)
	clockIn := "09:00"
	clockOut := "12:30"

	resp, err := deps.service.ManualEntry(ctx, companyID, actorID, attendance.ManualEntryRequest{
		EmployeeID: employeeID,
		Date:       "2026-03-02",
		ClockIn:    &clockIn,
		ClockOut:   &clockOut,
	})

	assert.NoError(t, err)
	assert.Equal(t, "2.50", resp.RegularHours)
	assert.Equal(t, attendance.StatusHalfDay, resp.Status)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestAttendanceService_ManualEntry_RejectsDuplicateDate(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	deps := setupAttendanceServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)
	deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, cid, eid string, date time.Time) (*attendance.AttendanceRecord, error) {
		return &attendance.AttendanceRecord{ID: uuid.New(), Status: attendance.StatusPresent}, nil
	}
	deps.repo.createFn = func(ctx context.Context, rec *attendance.AttendanceRecord) error {
		t.Fatal("create must not run when the date already has a record")
		return nil
	}

	hours := "8"
	_, err := deps.service.ManualEntry(ctx, companyID, actorID, attendance.ManualEntryRequest{
		EmployeeID:   employeeID,
		Date:         "2026-03-02",
		RegularHours: &hours,
	})

	assert.ErrorIs(t, err, attendanceerrors.ErrDateAlreadyRecorded)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestAttendanceService_ManualEntry_MapsConcurrentDuplicate(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	deps := setupAttendanceServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)
	deps.repo.createFn = func(ctx context.Context, rec *attendance.AttendanceRecord) error {
		return &pgconn.PgError{Code: "23505", ConstraintName: "idx_attendance_employee_date"}
	}

	hours := "8"
	_, err := deps.service.ManualEntry(ctx, companyID, actorID, attendance.ManualEntryRequest{
		EmployeeID:   employeeID,
		Date:         "2026-03-02",
		RegularHours: &hours,
	})

	assert.ErrorIs(t, err, attendanceerrors.ErrDateAlreadyRecorded)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestAttendanceService_ManualEntry_RequiresHoursOrTimes(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	deps := setupAttendanceServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	_, err := deps.service.ManualEntry(ctx, companyID, actorID, attendance.ManualEntryRequest{
		EmployeeID: employeeID,
		Date:       "2026-03-02",
	})

	assert.ErrorIs(t, err, attendanceerrors.ErrHoursOrTimesRequired)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestAttendanceService_Approve_OnlyPending(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	approverID := uuid.New().String()
	recordID := uuid.New().String()

	t.Run("pending approves", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*attendance.AttendanceRecord, error) {
			return &attendance.AttendanceRecord{
				ID:             uuid.MustParse(id),
				CompanyID:      uuid.MustParse(cid),
				ApprovalStatus: attendance.ApprovalPending,
				RegularHours:   decimal.NewFromInt(8),
				OvertimeHours:  decimal.Zero,
			}, nil
		}

		resp, err := deps.service.Approve(ctx, companyID, approverID, recordID)

		assert.NoError(t, err)
		assert.Equal(t, attendance.ApprovalApproved, resp.ApprovalStatus)
		assert.NotNil(t, resp.ApprovedBy)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("already approved is invalid", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*attendance.AttendanceRecord, error) {
			return &attendance.AttendanceRecord{
				ID:             uuid.MustParse(id),
				CompanyID:      uuid.MustParse(cid),
				ApprovalStatus: attendance.ApprovalApproved,
			}, nil
		}

		_, err := deps.service.Approve(ctx, companyID, approverID, recordID)

		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidStateTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestAttendanceService_Reject_RequiresRemarks(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	approverID := uuid.New().String()
	recordID := uuid.New().String()

	deps := setupAttendanceServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.Reject(ctx, companyID, approverID, recordID, "")

	assert.ErrorIs(t, err, attendanceerrors.ErrRemarksRequired)
}

func TestAttendanceService_BulkApprove_TalliesSkipped(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	approverID := uuid.New().String()

	deps := setupAttendanceServiceTest(t)
	defer deps.db.Close()

	pendingID := uuid.New().String()
	approvedID := uuid.New().String()
	missingID := uuid.New().String()

	// One commit for the pending record, rollbacks for the two skips.
	expectTx(t, deps.sqlMock, true)
	expectTx(t, deps.sqlMock, false)
	expectTx(t, deps.sqlMock, false)

	deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*attendance.AttendanceRecord, error) {
		switch id {
		case pendingID:
			return &attendance.AttendanceRecord{ID: uuid.MustParse(id), CompanyID: uuid.MustParse(cid), ApprovalStatus: attendance.ApprovalPending}, nil
		case approvedID:
			return &attendance.AttendanceRecord{ID: uuid.MustParse(id), CompanyID: uuid.MustParse(cid), ApprovalStatus: attendance.ApprovalApproved}, nil
		default:
			return nil, gorm.ErrRecordNotFound
		}
	}

	resp, err := deps.service.BulkApprove(ctx, companyID, approverID, []string{pendingID, approvedID, missingID})

	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Approved)
	assert.Equal(t, 2, resp.Skipped)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}
