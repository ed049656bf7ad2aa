package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "go-workforce/internal/attendance/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context, companyID, employeeID string) (AttendanceResponse, error)
	ManualEntry(ctx context.Context, companyID, actorID string, req ManualEntryRequest) (AttendanceResponse, error)
	Approve(ctx context.Context, companyID, approverID, id string) (AttendanceResponse, error)
	Reject(ctx context.Context, companyID, approverID, id, remarks string) (AttendanceResponse, error)
	BulkApprove(ctx context.Context, companyID, approverID string, ids []string) (BulkApproveResponse, error)
	GetAll(ctx context.Context, companyID, actorID string, canReadAll bool, filter QueryFilter) ([]AttendanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, logger: l, now: func() time.Time { return time.Now().UTC() }}
}

func (s *service) ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (AttendanceResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("clock in begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now()
	today := now.Truncate(24 * time.Hour)

	existing, err := qtx.FindByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err == nil {
		s.logger.Warn("clock in rejected, record exists for date",
			zap.String("company_id", companyID),
			zap.String("employee_id", employeeID),
		)
		if existing.ClockOut == nil && existing.ClockIn != nil {
			return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
		}
		return AttendanceResponse{}, attendanceerrors.ErrDateAlreadyRecorded
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	rule, err := qtx.ResolveRuleForEmployee(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrRuleNotFound
		}
		return AttendanceResponse{}, err
	}

	status := StatusWorking
	if isLate(now, *rule) {
		status = StatusLate
	}

	capture := req.CaptureMethod
	if capture == "" {
		capture = "WEB"
	}

	rec := &AttendanceRecord{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		EmployeeID:     employeeUUID,
		AttendanceDate: today,
		ClockIn:        &now,
		Status:         status,
		RegularHours:   decimal.Zero,
		OvertimeHours:  decimal.Zero,
		CaptureMethod:  capture,
		ApprovalStatus: ApprovalPending,
		Remarks:        req.Remarks,
	}

	if err := qtx.Create(ctx, rec); err != nil {
		s.logger.Error("clock in persist failed", zap.Error(err))
		return AttendanceResponse{}, mapWriteError(err)
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock in success",
		zap.String("attendance_id", rec.ID.String()),
		zap.String("employee_id", employeeID),
		zap.String("status", status),
	)
	return mapToResponse(*rec), nil
}

func (s *service) ClockOut(ctx context.Context, companyID, employeeID string) (AttendanceResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("clock out begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now()
	today := now.Truncate(24 * time.Hour)

	rec, err := qtx.FindOpenByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNoOpenRecord
		}
		return AttendanceResponse{}, err
	}

	rule, err := qtx.ResolveRuleForEmployee(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrRuleNotFound
		}
		return AttendanceResponse{}, err
	}

	rec.ClockOut = &now
	rec.RegularHours, rec.OvertimeHours = ComputeHours(*rec.ClockIn, now, *rule)
	rec.Status = closedStatus(rec.Status, rec.RegularHours.Add(rec.OvertimeHours), *rule)

	if err := qtx.Update(ctx, rec); err != nil {
		s.logger.Error("clock out persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock out success",
		zap.String("attendance_id", rec.ID.String()),
		zap.String("employee_id", employeeID),
		zap.String("regular_hours", rec.RegularHours.StringFixed(2)),
		zap.String("overtime_hours", rec.OvertimeHours.StringFixed(2)),
	)
	return mapToResponse(*rec), nil
}

// ManualEntry inserts an administrative record bypassing clock events. When
// clock times are supplied the hours are computed from them under the
// employee's rule; otherwise the supplied hours are taken as given. A date
// that already carries a record for the employee is rejected.
func (s *service) ManualEntry(ctx context.Context, companyID, actorID string, req ManualEntryRequest) (AttendanceResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByEmployeeAndDate(ctx, companyID, req.EmployeeID, date); err == nil {
		return AttendanceResponse{}, attendanceerrors.ErrDateAlreadyRecorded
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	rec := &AttendanceRecord{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		EmployeeID:     employeeUUID,
		AttendanceDate: date,
		CaptureMethod:  "MANUAL",
		ApprovalStatus: ApprovalPending,
		Remarks:        req.Remarks,
	}

	switch {
	case req.ClockIn != nil && req.ClockOut != nil:
		clockIn, err := parseTimeOfDay(date, *req.ClockIn)
		if err != nil {
			return AttendanceResponse{}, attendanceerrors.ErrInvalidDateFormat
		}
		clockOut, err := parseTimeOfDay(date, *req.ClockOut)
		if err != nil {
			return AttendanceResponse{}, attendanceerrors.ErrInvalidDateFormat
		}
		rule, err := qtx.ResolveRuleForEmployee(ctx, companyID, req.EmployeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return AttendanceResponse{}, attendanceerrors.ErrRuleNotFound
			}
			return AttendanceResponse{}, err
		}
		rec.ClockIn = &clockIn
		rec.ClockOut = &clockOut
		rec.RegularHours, rec.OvertimeHours = ComputeHours(clockIn, clockOut, *rule)
		rec.Status = closedStatus(StatusPresent, rec.RegularHours.Add(rec.OvertimeHours), *rule)
	case req.RegularHours != nil:
		regular, err := decimal.NewFromString(*req.RegularHours)
		if err != nil {
			return AttendanceResponse{}, attendanceerrors.ErrHoursOrTimesRequired
		}
		rec.RegularHours = regular.Round(2)
		if req.OvertimeHours != nil {
			overtime, err := decimal.NewFromString(*req.OvertimeHours)
			if err != nil {
				return AttendanceResponse{}, attendanceerrors.ErrHoursOrTimesRequired
			}
			rec.OvertimeHours = overtime.Round(2)
		}
		rec.Status = StatusPresent
	default:
		return AttendanceResponse{}, attendanceerrors.ErrHoursOrTimesRequired
	}

	if req.Status != "" {
		rec.Status = req.Status
	}

	if err := qtx.Create(ctx, rec); err != nil {
		s.logger.Error("manual entry persist failed", zap.Error(err))
		return AttendanceResponse{}, mapWriteError(err)
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("manual entry created",
		zap.String("attendance_id", rec.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("actor_id", actorID),
	)
	return mapToResponse(*rec), nil
}

func (s *service) Approve(ctx context.Context, companyID, approverID, id string) (AttendanceResponse, error) {
	return s.transitionApproval(ctx, companyID, approverID, id, ApprovalApproved, nil)
}

func (s *service) Reject(ctx context.Context, companyID, approverID, id, remarks string) (AttendanceResponse, error) {
	if remarks == "" {
		return AttendanceResponse{}, attendanceerrors.ErrRemarksRequired
	}
	return s.transitionApproval(ctx, companyID, approverID, id, ApprovalRejected, &remarks)
}

// transitionApproval is the single gate for approval changes: only PENDING
// records move, anything else is an invalid transition. Approved and
// rejected records stay immutable.
func (s *service) transitionApproval(ctx context.Context, companyID, approverID, id, target string, remarks *string) (AttendanceResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidCompanyID
	}
	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrRecordNotFound
		}
		return AttendanceResponse{}, err
	}
	if rec.ApprovalStatus != ApprovalPending {
		s.logger.Warn("approval transition rejected",
			zap.String("attendance_id", id),
			zap.String("from_status", rec.ApprovalStatus),
			zap.String("to_status", target),
		)
		return AttendanceResponse{}, attendanceerrors.ErrInvalidStateTransition
	}

	now := s.now()
	rec.ApprovalStatus = target
	rec.ApprovedBy = &approverUUID
	rec.ApprovedAt = &now
	if remarks != nil {
		rec.Remarks = remarks
	}

	if err := qtx.Update(ctx, rec); err != nil {
		s.logger.Error("approval transition persist failed",
			zap.String("attendance_id", id),
			zap.Error(err),
		)
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("approval transition success",
		zap.String("attendance_id", id),
		zap.String("approval_status", target),
	)
	return mapToResponse(*rec), nil
}

// BulkApprove applies Approve to each id independently. Each record
// transition commits on its own; the batch is a tally, not a transaction,
// so earlier successes stand when a later record is skipped.
func (s *service) BulkApprove(ctx context.Context, companyID, approverID string, ids []string) (BulkApproveResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return BulkApproveResponse{}, attendanceerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(approverID); err != nil {
		return BulkApproveResponse{}, attendanceerrors.ErrInvalidActorID
	}

	var result BulkApproveResponse
	for _, id := range ids {
		_, err := s.Approve(ctx, companyID, approverID, id)
		switch {
		case err == nil:
			result.Approved++
		case errors.Is(err, attendanceerrors.ErrInvalidStateTransition),
			errors.Is(err, attendanceerrors.ErrRecordNotFound):
			result.Skipped++
		default:
			return result, err
		}
	}

	s.logger.Info("bulk approve finished",
		zap.Int("approved", result.Approved),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (s *service) GetAll(ctx context.Context, companyID, actorID string, canReadAll bool, filter QueryFilter) ([]AttendanceResponse, error) {
	var (
		rows []AttendanceRecord
		err  error
	)
	if canReadAll {
		rows, err = s.repo.FindAllByCompany(ctx, companyID, filter)
	} else {
		if _, parseErr := uuid.Parse(actorID); parseErr != nil {
			return nil, attendanceerrors.ErrInvalidActorID
		}
		rows, err = s.repo.FindAllByEmployee(ctx, companyID, actorID, filter)
	}
	if err != nil {
		return nil, err
	}

	resp := make([]AttendanceResponse, len(rows))
	for i, rec := range rows {
		resp[i] = mapToResponse(rec)
	}
	return resp, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, attendanceerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(rec AttendanceRecord) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             rec.ID.String(),
		CompanyID:      rec.CompanyID.String(),
		EmployeeID:     rec.EmployeeID.String(),
		AttendanceDate: rec.AttendanceDate.Format("2006-01-02"),
		Status:         rec.Status,
		RegularHours:   rec.RegularHours.StringFixed(2),
		OvertimeHours:  rec.OvertimeHours.StringFixed(2),
		CaptureMethod:  rec.CaptureMethod,
		ApprovalStatus: rec.ApprovalStatus,
		Remarks:        rec.Remarks,
	}
	if rec.ClockIn != nil {
		v := rec.ClockIn.Format(time.RFC3339)
		resp.ClockIn = &v
	}
	if rec.ClockOut != nil {
		v := rec.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &v
	}
	if rec.ApprovedBy != nil {
		v := rec.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if rec.ApprovedAt != nil {
		v := rec.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}
