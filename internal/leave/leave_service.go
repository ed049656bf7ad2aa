package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	leaveerrors "go-workforce/internal/leave/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// balanceRetryAttempts bounds the optimistic-retry loop on a balance row.
const balanceRetryAttempts = 3

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	ManagerApprove(ctx context.Context, companyID, actorID, id string, remarks *string) (LeaveResponse, error)
	ManagerReject(ctx context.Context, companyID, actorID, id, remarks string) (LeaveResponse, error)
	HRApprove(ctx context.Context, companyID, actorID, id string, remarks *string) (LeaveResponse, error)
	HRReject(ctx context.Context, companyID, actorID, id, remarks string) (LeaveResponse, error)
	Cancel(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error)
	GetAll(ctx context.Context, companyID string) ([]LeaveResponse, error)
	GetAllByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error)
	GetBalances(ctx context.Context, companyID, employeeID string, year int) ([]BalanceResponse, error)
	GetActivity(ctx context.Context, companyID, requestID string) ([]ActivityResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, logger: l, now: func() time.Time { return time.Now().UTC() }}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave request",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("leave_type_id", req.LeaveTypeID),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	leaveTypeUUID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveTypeID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	leaveType, err := qtx.FindLeaveTypeByIDAndCompany(ctx, companyID, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveTypeNotFound
		}
		return LeaveResponse{}, err
	}

	hourly := req.StartTime != nil && req.EndTime != nil
	if hourly && !leaveType.AllowHourly {
		return LeaveResponse{}, leaveerrors.ErrHourlyNotAllowed
	}

	var totalDays, totalHours decimal.Decimal
	if hourly {
		if !startDate.Equal(endDate) {
			return LeaveResponse{}, leaveerrors.ErrInvalidTimeRange
		}
		totalHours, err = hoursBetween(*req.StartTime, *req.EndTime)
		if err != nil {
			return LeaveResponse{}, err
		}
	} else {
		// Inclusive date span
		totalDays = decimal.NewFromInt(int64(endDate.Sub(startDate).Hours()/24) + 1)
	}

	l := &LeaveRequest{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		EmployeeID:  employeeUUID,
		LeaveTypeID: leaveTypeUUID,
		StartDate:   startDate,
		EndDate:     endDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Hourly:      hourly,
		TotalDays:   totalDays,
		TotalHours:  totalHours,
		Reason:      req.Reason,
		Status:      StatusPendingManager,
		CreatedBy:   employeeUUID,
	}

	// Reserve the amount before the request exists: the balance check and
	// the pending debit happen together under the revision CAS, so a race
	// between two submissions cannot both pass the availability check.
	amount := l.Amount()
	_, err = s.mutateBalance(ctx, qtx, companyID, actorID, req.LeaveTypeID, startDate.Year(), func(b *LeaveBalance) error {
		if b.Available().LessThan(amount) {
			return leaveerrors.ErrInsufficientBalance
		}
		b.Pending = b.Pending.Add(amount)
		return nil
	})
	if err != nil {
		s.logger.Warn("create leave balance reservation failed",
			zap.String("employee_id", actorID),
			zap.String("leave_type_id", req.LeaveTypeID),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if err := qtx.CreateRequest(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.appendActivity(ctx, qtx, l, ActionSubmit, employeeUUID, "", StatusPendingManager, nil); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", actorID),
		zap.String("amount", amount.StringFixed(2)),
	)
	return mapToResponse(*l), nil
}

func (s *service) ManagerApprove(ctx context.Context, companyID, actorID, id string, remarks *string) (LeaveResponse, error) {
	return s.transition(ctx, companyID, actorID, id, ActionManagerApprove, remarks)
}

func (s *service) ManagerReject(ctx context.Context, companyID, actorID, id, remarks string) (LeaveResponse, error) {
	if remarks == "" {
		return LeaveResponse{}, leaveerrors.ErrRemarksRequired
	}
	return s.transition(ctx, companyID, actorID, id, ActionManagerReject, &remarks)
}

func (s *service) HRApprove(ctx context.Context, companyID, actorID, id string, remarks *string) (LeaveResponse, error) {
	return s.transition(ctx, companyID, actorID, id, ActionHRApprove, remarks)
}

func (s *service) HRReject(ctx context.Context, companyID, actorID, id, remarks string) (LeaveResponse, error) {
	if remarks == "" {
		return LeaveResponse{}, leaveerrors.ErrRemarksRequired
	}
	return s.transition(ctx, companyID, actorID, id, ActionHRReject, &remarks)
}

func (s *service) Cancel(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error) {
	return s.transition(ctx, companyID, actorID, id, ActionCancel, nil)
}

// transition drives the two-level state machine. The balance side effect of
// each action runs in the same transaction as the status change, so a
// failed write never leaves a dangling pending reservation.
func (s *service) transition(ctx context.Context, companyID, actorID, id, action string, remarks *string) (LeaveResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("leave transition begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindRequestByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrRequestNotFound
		}
		return LeaveResponse{}, err
	}

	target, ok := nextStatus(l.Status, action)
	if !ok {
		s.logger.Warn("leave transition invalid",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("action", action),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStateTransition
	}

	if action == ActionCancel && l.EmployeeID != actorUUID {
		return LeaveResponse{}, leaveerrors.ErrNotRequester
	}

	oldStatus := l.Status
	now := s.now()
	amount := l.Amount()
	year := l.StartDate.Year()

	switch action {
	case ActionManagerApprove:
		approved := ApprovalApproved
		l.ManagerApprovalStatus = &approved
		l.ManagerApprovedBy = &actorUUID
		l.ManagerApprovedAt = &now
		l.ManagerRemarks = remarks
		// Balance untouched: the amount stays reserved in pending.
	case ActionManagerReject:
		rejected := ApprovalRejected
		l.ManagerApprovalStatus = &rejected
		l.ManagerApprovedBy = &actorUUID
		l.ManagerApprovedAt = &now
		l.ManagerRemarks = remarks
		err = s.releasePending(ctx, qtx, l, amount, year)
	case ActionHRApprove:
		approved := ApprovalApproved
		l.HRApprovalStatus = &approved
		l.HRApprovedBy = &actorUUID
		l.HRApprovedAt = &now
		l.HRRemarks = remarks
		_, err = s.mutateBalance(ctx, qtx, companyID, l.EmployeeID.String(), l.LeaveTypeID.String(), year, func(b *LeaveBalance) error {
			b.Pending = b.Pending.Sub(amount)
			b.Used = b.Used.Add(amount)
			return nil
		})
	case ActionHRReject:
		rejected := ApprovalRejected
		l.HRApprovalStatus = &rejected
		l.HRApprovedBy = &actorUUID
		l.HRApprovedAt = &now
		l.HRRemarks = remarks
		err = s.releasePending(ctx, qtx, l, amount, year)
	case ActionCancel:
		err = s.releasePending(ctx, qtx, l, amount, year)
	}
	if err != nil {
		s.logger.Error("leave transition balance update failed",
			zap.String("leave_id", id),
			zap.String("action", action),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	l.Status = target
	if err := qtx.UpdateRequest(ctx, l); err != nil {
		s.logger.Error("leave transition persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if err := s.appendActivity(ctx, qtx, l, action, actorUUID, oldStatus, target, remarks); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("leave transition commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	s.logger.Info("leave transition success",
		zap.String("leave_id", id),
		zap.String("action", action),
		zap.String("status", target),
	)
	return mapToResponse(*l), nil
}

func (s *service) releasePending(ctx context.Context, repo Repository, l *LeaveRequest, amount decimal.Decimal, year int) error {
	_, err := s.mutateBalance(ctx, repo, l.CompanyID.String(), l.EmployeeID.String(), l.LeaveTypeID.String(), year, func(b *LeaveBalance) error {
		b.Pending = b.Pending.Sub(amount)
		return nil
	})
	return err
}

// mutateBalance runs fn over a freshly-loaded balance row and writes it
// back under the revision CAS, retrying on conflict. Only the same
// (employee, leaveType, year) row ever contends.
func (s *service) mutateBalance(
	ctx context.Context,
	repo Repository,
	companyID, employeeID, leaveTypeID string,
	year int,
	fn func(*LeaveBalance) error,
) (*LeaveBalance, error) {
	var lastErr error
	for attempt := 0; attempt < balanceRetryAttempts; attempt++ {
		b, err := repo.FindBalance(ctx, companyID, employeeID, leaveTypeID, year)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, leaveerrors.ErrBalanceNotFound
			}
			return nil, err
		}

		if err := fn(b); err != nil {
			return nil, err
		}

		err = repo.UpdateBalanceWithRevision(ctx, b)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, leaveerrors.ErrBalanceConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *service) appendActivity(
	ctx context.Context,
	repo Repository,
	l *LeaveRequest,
	action string,
	actor uuid.UUID,
	oldStatus, newStatus string,
	remarks *string,
) error {
	a := &LeaveActivity{
		ID:             uuid.New(),
		CompanyID:      l.CompanyID,
		LeaveRequestID: l.ID,
		Action:         action,
		ActorID:        actor,
		OldStatus:      oldStatus,
		NewStatus:      newStatus,
		Remarks:        remarks,
	}
	if err := repo.AppendActivity(ctx, a); err != nil {
		s.logger.Error("append leave activity failed",
			zap.String("leave_id", l.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]LeaveResponse, error) {
	rows, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetAllByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveResponse, error) {
	rows, err := s.repo.FindAllByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error) {
	l, err := s.repo.FindRequestByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrRequestNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) GetBalances(ctx context.Context, companyID, employeeID string, year int) ([]BalanceResponse, error) {
	rows, err := s.repo.FindBalancesByEmployee(ctx, companyID, employeeID, year)
	if err != nil {
		return nil, err
	}
	resp := make([]BalanceResponse, len(rows))
	for i, b := range rows {
		resp[i] = mapBalanceToResponse(b)
	}
	return resp, nil
}

func (s *service) GetActivity(ctx context.Context, companyID, requestID string) ([]ActivityResponse, error) {
	rows, err := s.repo.FindActivitiesByRequest(ctx, companyID, requestID)
	if err != nil {
		return nil, err
	}
	resp := make([]ActivityResponse, len(rows))
	for i, a := range rows {
		resp[i] = ActivityResponse{
			ID:        a.ID.String(),
			Action:    a.Action,
			ActorID:   a.ActorID.String(),
			OldStatus: a.OldStatus,
			NewStatus: a.NewStatus,
			Remarks:   a.Remarks,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// hoursBetween converts an HH:MM pair into a 2dp hour count.
func hoursBetween(start, end string) (decimal.Decimal, error) {
	st, err := time.Parse("15:04", start)
	if err != nil {
		return decimal.Zero, leaveerrors.ErrInvalidTimeFormat
	}
	et, err := time.Parse("15:04", end)
	if err != nil {
		return decimal.Zero, leaveerrors.ErrInvalidTimeFormat
	}
	if !et.After(st) {
		return decimal.Zero, leaveerrors.ErrInvalidTimeRange
	}
	minutes := et.Sub(st).Minutes()
	return decimal.NewFromFloat(minutes).Div(decimal.NewFromInt(60)).Round(2), nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:          l.ID.String(),
		CompanyID:   l.CompanyID.String(),
		EmployeeID:  l.EmployeeID.String(),
		LeaveTypeID: l.LeaveTypeID.String(),
		StartDate:   l.StartDate.Format("2006-01-02"),
		EndDate:     l.EndDate.Format("2006-01-02"),
		StartTime:   l.StartTime,
		EndTime:     l.EndTime,
		Hourly:      l.Hourly,
		TotalDays:   l.TotalDays.StringFixed(2),
		TotalHours:  l.TotalHours.StringFixed(2),
		Reason:      l.Reason,
		Status:      l.Status,
		CreatedBy:   l.CreatedBy.String(),
	}

	resp.ManagerApprovalStatus = l.ManagerApprovalStatus
	if l.ManagerApprovedBy != nil {
		v := l.ManagerApprovedBy.String()
		resp.ManagerApprovedBy = &v
	}
	if l.ManagerApprovedAt != nil {
		v := l.ManagerApprovedAt.Format(time.RFC3339)
		resp.ManagerApprovedAt = &v
	}
	resp.ManagerRemarks = l.ManagerRemarks

	resp.HRApprovalStatus = l.HRApprovalStatus
	if l.HRApprovedBy != nil {
		v := l.HRApprovedBy.String()
		resp.HRApprovedBy = &v
	}
	if l.HRApprovedAt != nil {
		v := l.HRApprovedAt.Format(time.RFC3339)
		resp.HRApprovedAt = &v
	}
	resp.HRRemarks = l.HRRemarks

	return resp
}

func mapToListResponse(rows []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(rows))
	for i, l := range rows {
		resp[i] = mapToResponse(l)
	}
	return resp
}

func mapBalanceToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		ID:             b.ID.String(),
		EmployeeID:     b.EmployeeID.String(),
		LeaveTypeID:    b.LeaveTypeID.String(),
		Year:           b.Year,
		OpeningBalance: b.OpeningBalance.StringFixed(2),
		Credited:       b.Credited.StringFixed(2),
		CarryForward:   b.CarryForward.StringFixed(2),
		Used:           b.Used.StringFixed(2),
		Pending:        b.Pending.StringFixed(2),
		Lapsed:         b.Lapsed.StringFixed(2),
		Encashed:       b.Encashed.StringFixed(2),
		Available:      b.Available().StringFixed(2),
	}
}
