package timesheet

import (
	"context"
	"database/sql"
	"errors"
	"time"

	timesheeterrors "go-workforce/internal/timesheet/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=timesheet_service.go -destination=mock/timesheet_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, companyID, actorID string, req GenerateRequest) (GenerateResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (TimesheetResponse, error)
	Reject(ctx context.Context, companyID, actorID, id, remarks string) (TimesheetResponse, error)
	GetAll(ctx context.Context, companyID string, filter QueryFilter) ([]TimesheetResponse, error)
	GetByID(ctx context.Context, companyID, id string) (TimesheetResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("timesheet.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timesheet.service")
	}
	return &service{db: db, repo: repo, logger: l, now: func() time.Time { return time.Now().UTC() }}
}

// Generate rebuilds timesheets for the period from scratch. Each
// employee is processed in its own transaction: a failure on one leaves
// the others committed, and rerunning the same period converges on the
// same rows because generation replaces rather than merges.
func (s *service) Generate(ctx context.Context, companyID, actorID string, req GenerateRequest) (GenerateResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return GenerateResponse{}, timesheeterrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return GenerateResponse{}, timesheeterrors.ErrInvalidEmployeeID
	}
	periodStart, err := parseDate(req.PeriodStart)
	if err != nil {
		return GenerateResponse{}, err
	}
	periodEnd, err := parseDate(req.PeriodEnd)
	if err != nil {
		return GenerateResponse{}, err
	}
	if periodStart.After(periodEnd) {
		return GenerateResponse{}, timesheeterrors.ErrInvalidPeriod
	}

	employeeIDs := req.EmployeeIDs
	if len(employeeIDs) == 0 {
		refs, err := s.repo.FindActiveEmployees(ctx, companyID)
		if err != nil {
			return GenerateResponse{}, err
		}
		if len(refs) == 0 {
			return GenerateResponse{}, timesheeterrors.ErrNoEmployees
		}
		for _, ref := range refs {
			employeeIDs = append(employeeIDs, ref.ID.String())
		}
	}

	s.logger.Info("timesheet generation started",
		zap.String("company_id", companyID),
		zap.String("period_start", req.PeriodStart),
		zap.String("period_end", req.PeriodEnd),
		zap.Int("employees", len(employeeIDs)),
	)

	resp := GenerateResponse{Timesheets: []TimesheetResponse{}}
	for _, employeeID := range employeeIDs {
		t, err := s.generateOne(ctx, companyUUID, actorUUID, employeeID, periodStart, periodEnd)
		if err != nil {
			if errors.Is(err, timesheeterrors.ErrTimesheetLocked) {
				resp.Skipped++
				continue
			}
			s.logger.Error("timesheet generation failed for employee",
				zap.String("employee_id", employeeID),
				zap.Error(err),
			)
			return GenerateResponse{}, err
		}
		if t == nil {
			resp.Skipped++
			continue
		}
		resp.Generated++
		resp.Timesheets = append(resp.Timesheets, mapToResponse(*t))
	}

	s.logger.Info("timesheet generation finished",
		zap.String("company_id", companyID),
		zap.Int("generated", resp.Generated),
		zap.Int("skipped", resp.Skipped),
	)
	return resp, nil
}

// generateOne returns (nil, nil) when the employee has no approved
// source records in the period; no timesheet row is produced then.
func (s *service) generateOne(ctx context.Context, companyID, actorID uuid.UUID, employeeID string, periodStart, periodEnd time.Time) (*Timesheet, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindByEmployeePeriod(ctx, companyID.String(), employeeID, periodStart, periodEnd)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil && existing.Status == StatusApproved {
		return nil, timesheeterrors.ErrTimesheetLocked
	}

	attendance, err := qtx.FindApprovedAttendance(ctx, companyID.String(), employeeID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	leaves, err := qtx.FindApprovedLeave(ctx, companyID.String(), employeeID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	if len(attendance) == 0 && len(leaves) == 0 {
		// Nothing to aggregate. A stale draft from an earlier run must
		// not outlive its source records.
		if err := qtx.DeleteForEmployeePeriod(ctx, companyID.String(), employeeID, periodStart, periodEnd); err != nil {
			return nil, err
		}
		return nil, tx.Commit()
	}

	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, timesheeterrors.ErrInvalidEmployeeID
	}

	t := &Timesheet{
		ID:          uuid.New(),
		CompanyID:   companyID,
		EmployeeID:  employeeUUID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Status:      StatusGenerated,
		GeneratedAt: s.now(),
		GeneratedBy: actorID,
	}
	aggregate(t, attendance, leaves, periodStart, periodEnd)

	if err := qtx.ReplaceForEmployeePeriod(ctx, t); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return t, nil
}

// aggregate folds source rows into the timesheet totals. Leave spans are
// clipped to the period so a request straddling the boundary only
// contributes its in-period days.
func aggregate(t *Timesheet, attendance []AttendanceRow, leaves []LeaveRow, periodStart, periodEnd time.Time) {
	regular := decimal.Zero
	overtime := decimal.Zero
	for _, a := range attendance {
		regular = regular.Add(a.RegularHours)
		overtime = overtime.Add(a.OvertimeHours)
		switch a.Status {
		case "PRESENT":
			t.PresentDays++
		case "LATE":
			t.PresentDays++
			t.LateDays++
		case "HALF_DAY":
			t.HalfDays++
		case "ABSENT":
			t.AbsentDays++
		}
	}
	t.TotalRegularHours = regular.Round(2)
	t.TotalOvertimeHours = overtime.Round(2)

	leaveDays := decimal.Zero
	leaveHours := decimal.Zero
	for _, l := range leaves {
		if l.Hourly {
			leaveHours = leaveHours.Add(l.TotalHours)
			continue
		}
		start := l.StartDate
		if start.Before(periodStart) {
			start = periodStart
		}
		end := l.EndDate
		if end.After(periodEnd) {
			end = periodEnd
		}
		days := int64(end.Sub(start).Hours()/24) + 1
		leaveDays = leaveDays.Add(decimal.NewFromInt(days))
	}
	t.LeaveDays = leaveDays.Round(2)
	t.LeaveHours = leaveHours.Round(2)
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (TimesheetResponse, error) {
	return s.review(ctx, companyID, actorID, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id, remarks string) (TimesheetResponse, error) {
	if remarks == "" {
		return TimesheetResponse{}, timesheeterrors.ErrRemarksRequired
	}
	return s.review(ctx, companyID, actorID, id, StatusRejected, &remarks)
}

func (s *service) review(ctx context.Context, companyID, actorID, id, target string, remarks *string) (TimesheetResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return TimesheetResponse{}, timesheeterrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimesheetResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	t, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimesheetResponse{}, timesheeterrors.ErrTimesheetNotFound
		}
		return TimesheetResponse{}, err
	}

	if t.Status != StatusGenerated {
		s.logger.Warn("timesheet review rejected by state",
			zap.String("timesheet_id", id),
			zap.String("status", t.Status),
			zap.String("target", target),
		)
		return TimesheetResponse{}, timesheeterrors.ErrInvalidStateTransition
	}

	now := s.now()
	t.Status = target
	t.ReviewedBy = &actorUUID
	t.ReviewedAt = &now
	t.Remarks = remarks

	if err := qtx.Update(ctx, t); err != nil {
		return TimesheetResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return TimesheetResponse{}, err
	}

	s.logger.Info("timesheet reviewed",
		zap.String("timesheet_id", id),
		zap.String("status", target),
	)
	return mapToResponse(*t), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter QueryFilter) ([]TimesheetResponse, error) {
	rows, err := s.repo.FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]TimesheetResponse, len(rows))
	for i, t := range rows {
		resp[i] = mapToResponse(t)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (TimesheetResponse, error) {
	t, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimesheetResponse{}, timesheeterrors.ErrTimesheetNotFound
		}
		return TimesheetResponse{}, err
	}
	return mapToResponse(*t), nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, timesheeterrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(t Timesheet) TimesheetResponse {
	resp := TimesheetResponse{
		ID:                 t.ID.String(),
		CompanyID:          t.CompanyID.String(),
		EmployeeID:         t.EmployeeID.String(),
		PeriodStart:        t.PeriodStart.Format("2006-01-02"),
		PeriodEnd:          t.PeriodEnd.Format("2006-01-02"),
		TotalRegularHours:  t.TotalRegularHours.StringFixed(2),
		TotalOvertimeHours: t.TotalOvertimeHours.StringFixed(2),
		PresentDays:        t.PresentDays,
		AbsentDays:         t.AbsentDays,
		HalfDays:           t.HalfDays,
		LateDays:           t.LateDays,
		LeaveDays:          t.LeaveDays.StringFixed(2),
		LeaveHours:         t.LeaveHours.StringFixed(2),
		Status:             t.Status,
		GeneratedAt:        t.GeneratedAt.Format(time.RFC3339),
		GeneratedBy:        t.GeneratedBy.String(),
	}
	if t.ReviewedBy != nil {
		v := t.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if t.ReviewedAt != nil {
		v := t.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	resp.Remarks = t.Remarks
	return resp
}
