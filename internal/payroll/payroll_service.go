package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-workforce/internal/events"
	"go-workforce/internal/messaging/kafka"
	payrollerrors "go-workforce/internal/payroll/errors"
	"go-workforce/internal/shared/contextutil"
	"go-workforce/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	counterTypePayrollRun = "payroll_run"

	// calculateParallelism bounds the per-employee workers in a run.
	calculateParallelism = 8
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	CreateRun(ctx context.Context, companyID, actorID string, req CreateRunRequest) (RunResponse, error)
	Calculate(ctx context.Context, companyID, actorID, id string) (RunResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (RunResponse, error)
	Process(ctx context.Context, companyID, actorID, id string) (RunResponse, error)
	GetAll(ctx context.Context, companyID string) ([]RunResponse, error)
	GetByID(ctx context.Context, companyID, id string) (RunResponse, error)
	GetRecords(ctx context.Context, companyID, runID string) ([]RecordResponse, error)
	GeneratePayslip(ctx context.Context, companyID, recordID string) (RecordResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	policy  TaxPolicy
	logger  *zap.Logger
	now     func() time.Time
}

func NewService(db *sql.DB, repo Repository, counterRepo counter.Repository, policy TaxPolicy) Service {
	return NewServiceWithOutbox(db, repo, counterRepo, nil, policy)
}

func NewServiceWithOutbox(db *sql.DB, repo Repository, counterRepo counter.Repository, outbox kafka.OutboxRepository, policy TaxPolicy) Service {
	if policy == nil {
		policy = ZeroTaxPolicy{}
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		outbox:  outbox,
		policy:  policy,
		logger:  zap.L().Named("payroll.service"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) CreateRun(ctx context.Context, companyID, actorID string, req CreateRunRequest) (RunResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidActorID
	}
	periodStart, err := parseDate(req.PeriodStart)
	if err != nil {
		return RunResponse{}, err
	}
	periodEnd, err := parseDate(req.PeriodEnd)
	if err != nil {
		return RunResponse{}, err
	}
	if periodStart.After(periodEnd) {
		return RunResponse{}, payrollerrors.ErrInvalidPeriod
	}
	payDate := periodEnd
	if req.PayDate != "" {
		payDate, err = parseDate(req.PayDate)
		if err != nil {
			return RunResponse{}, err
		}
		if payDate.Before(periodStart) {
			return RunResponse{}, payrollerrors.ErrInvalidPeriod
		}
	}
	payFrequency := req.PayFrequency
	if payFrequency == "" {
		payFrequency = PayFrequencyMonthly
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingRun(ctx, companyID, periodStart, periodEnd, nil)
	if err != nil {
		return RunResponse{}, err
	}
	if overlap {
		return RunResponse{}, payrollerrors.ErrOverlappingRun
	}

	year := periodStart.Year()
	seq, err := s.counter.GetNextValue(ctx, companyID, fmt.Sprintf("%s_%d", counterTypePayrollRun, year))
	if err != nil {
		return RunResponse{}, err
	}

	run := &PayrollRun{
		ID:           uuid.New(),
		CompanyID:    companyUUID,
		RunNumber:    fmt.Sprintf("PR-%d-%04d", year, seq),
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
		PayDate:      payDate,
		PayFrequency: payFrequency,
		Status:       StatusDraft,
		CreatedBy:    actorUUID,
	}

	if err := qtx.CreateRun(ctx, run); err != nil {
		s.logger.Error("create payroll run failed", zap.Error(err))
		return RunResponse{}, mapWriteError(err)
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	s.logger.Info("payroll run created",
		zap.String("run_id", run.ID.String()),
		zap.String("run_number", run.RunNumber),
	)
	return mapRunToResponse(*run), nil
}

// Calculate locks the run, prices every approved timesheet in the
// period in parallel, and commits records and totals in one
// transaction. Any failure after the lock rolls the run back to DRAFT
// with zero records; there is no partially calculated state a reader
// can observe.
func (s *service) Calculate(ctx context.Context, companyID, actorID, id string) (RunResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidActorID
	}

	run, err := s.repo.FindRunByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RunResponse{}, payrollerrors.ErrRunNotFound
		}
		return RunResponse{}, err
	}

	if err := s.acquireCalculating(ctx, companyID, id); err != nil {
		return RunResponse{}, err
	}

	resp, err := s.calculateLocked(ctx, companyID, run)
	if err != nil {
		s.revertToDraft(ctx, companyID, id)
		return RunResponse{}, err
	}
	return resp, nil
}

func (s *service) acquireCalculating(ctx context.Context, companyID, id string) error {
	for _, from := range []string{StatusDraft, StatusCalculated} {
		swapped, err := s.repo.UpdateRunStatusIf(ctx, companyID, id, from, StatusCalculating)
		if err != nil {
			return err
		}
		if swapped {
			return nil
		}
	}

	run, err := s.repo.FindRunByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return err
	}
	if run.Status == StatusCalculating {
		return payrollerrors.ErrRunCalculating
	}
	return payrollerrors.ErrInvalidStateTransition
}

// revertToDraft is best-effort cleanup after a failed calculation. The
// conditional update means we only undo our own lock.
func (s *service) revertToDraft(ctx context.Context, companyID, id string) {
	if err := s.repo.DeleteRecordsByRun(ctx, id); err != nil {
		s.logger.Error("revert payroll run: delete records failed",
			zap.String("run_id", id),
			zap.Error(err),
		)
	}
	if _, err := s.repo.UpdateRunStatusIf(ctx, companyID, id, StatusCalculating, StatusDraft); err != nil {
		s.logger.Error("revert payroll run: status reset failed",
			zap.String("run_id", id),
			zap.Error(err),
		)
	}
}

func (s *service) calculateLocked(ctx context.Context, companyID string, run *PayrollRun) (RunResponse, error) {
	timesheets, err := s.repo.FindApprovedTimesheets(ctx, companyID, run.PeriodStart, run.PeriodEnd)
	if err != nil {
		return RunResponse{}, err
	}
	if len(timesheets) == 0 {
		return RunResponse{}, payrollerrors.ErrNoTimesheets
	}

	employeeIDs := make([]string, len(timesheets))
	for i, ts := range timesheets {
		employeeIDs[i] = ts.EmployeeID.String()
	}

	profiles, err := s.repo.FindPayProfiles(ctx, companyID, employeeIDs)
	if err != nil {
		return RunResponse{}, err
	}
	profileByEmployee := make(map[uuid.UUID]PayProfile, len(profiles))
	for _, p := range profiles {
		profileByEmployee[p.EmployeeID] = p
	}

	records := make([]PayrollRecord, len(timesheets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(calculateParallelism)
	for i, ts := range timesheets {
		i, ts := i, ts // per-iteration copies; module builds with a pre-1.22 toolchain
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			profile, ok := profileByEmployee[ts.EmployeeID]
			if !ok {
				return payrollerrors.ErrPayProfileMissing
			}
			rec, err := buildRecord(run, ts, profile, s.policy)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("payroll calculation aborted",
			zap.String("run_id", run.ID.String()),
			zap.Error(err),
		)
		return RunResponse{}, err
	}

	totalGross := decimal.Zero
	totalDeductions := decimal.Zero
	totalTax := decimal.Zero
	totalNet := decimal.Zero
	totalEmployerContrib := decimal.Zero
	for _, rec := range records {
		totalGross = totalGross.Add(rec.GrossPay)
		totalDeductions = totalDeductions.Add(rec.TotalDeductions)
		totalTax = totalTax.Add(rec.TaxAmount)
		totalNet = totalNet.Add(rec.NetPay)
		totalEmployerContrib = totalEmployerContrib.Add(rec.EmployerContrib)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.ReplaceRecordsForRun(ctx, run.ID.String(), records); err != nil {
		return RunResponse{}, mapWriteError(err)
	}

	now := s.now()
	run.Status = StatusCalculated
	run.CalculatedAt = &now
	run.EmployeeCount = len(records)
	run.TotalGross = totalGross
	run.TotalDeductions = totalDeductions
	run.TotalTax = totalTax
	run.TotalNet = totalNet
	run.TotalEmployerContrib = totalEmployerContrib
	run.TaxPolicy = s.policy.Name()

	if err := qtx.UpdateRun(ctx, run); err != nil {
		return RunResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	s.logger.Info("payroll run calculated",
		zap.String("run_id", run.ID.String()),
		zap.String("run_number", run.RunNumber),
		zap.Int("employees", run.EmployeeCount),
		zap.String("total_net", totalNet.StringFixed(2)),
	)
	return mapRunToResponse(*run), nil
}

// buildRecord prices one timesheet. Pure; runs concurrently across
// employees.
func buildRecord(run *PayrollRun, ts TimesheetRow, p PayProfile, policy TaxPolicy) (PayrollRecord, error) {
	var rateUsed, regularPay, overtimePay decimal.Decimal

	switch p.PayType {
	case PayTypeHourly:
		if p.HourlyRate == nil || p.HourlyRate.IsZero() {
			return PayrollRecord{}, payrollerrors.ErrPayProfileMissing
		}
		rateUsed = *p.HourlyRate
		regularPay = rateUsed.Mul(ts.TotalRegularHours).Round(2)
		overtimePay = rateUsed.Mul(p.OvertimeMultiplier).Mul(ts.TotalOvertimeHours).Round(2)

	case PayTypeSalaried:
		if p.AnnualSalary == nil || p.AnnualSalary.IsZero() {
			return PayrollRecord{}, payrollerrors.ErrPayProfileMissing
		}
		workingDays := p.WorkingDaysPerWeek
		if workingDays <= 0 {
			workingDays = 5
		}
		dailyRate := p.AnnualSalary.
			Div(decimal.NewFromInt(52)).
			Div(decimal.NewFromInt(int64(workingDays)))
		frequency := run.PayFrequency
		if frequency == "" {
			frequency = p.PayFrequency
		}
		regularPay = periodPay(*p.AnnualSalary, dailyRate, workingDays, frequency).Round(2)

		hoursPerDay := p.RegularHoursPerDay
		if hoursPerDay.IsZero() {
			hoursPerDay = decimal.NewFromInt(8)
		}
		rateUsed = dailyRate.Div(hoursPerDay)
		overtimePay = rateUsed.Mul(p.OvertimeMultiplier).Mul(ts.TotalOvertimeHours).Round(2)

	default:
		return PayrollRecord{}, payrollerrors.ErrPayProfileMissing
	}

	// Bonuses, reimbursements, non-tax deductions and employer
	// contributions have no upstream source yet; they flow through the
	// formulas as zero.
	bonuses := decimal.Zero
	reimbursements := decimal.Zero
	totalDeductions := decimal.Zero
	employerContrib := decimal.Zero

	gross := regularPay.Add(overtimePay).Add(bonuses).Add(reimbursements)
	tax := policy.Tax(gross)
	net := gross.Sub(totalDeductions).Sub(tax)

	return PayrollRecord{
		ID:              uuid.New(),
		CompanyID:       run.CompanyID,
		RunID:           run.ID,
		EmployeeID:      ts.EmployeeID,
		TimesheetID:     ts.ID,
		PayType:         p.PayType,
		RateUsed:        rateUsed.Round(4),
		RegularHours:    ts.TotalRegularHours,
		OvertimeHours:   ts.TotalOvertimeHours,
		RegularPay:      regularPay,
		OvertimePay:     overtimePay,
		Bonuses:         bonuses,
		Reimbursements:  reimbursements,
		GrossPay:        gross,
		TotalDeductions: totalDeductions,
		TaxAmount:       tax,
		NetPay:          net,
		EmployerContrib: employerContrib,
	}, nil
}

// periodPay converts an annual salary into the salary portion of one
// pay period.
func periodPay(annual, dailyRate decimal.Decimal, workingDays int, frequency string) decimal.Decimal {
	switch frequency {
	case PayFrequencyWeekly:
		return dailyRate.Mul(decimal.NewFromInt(int64(workingDays)))
	case PayFrequencyBiweekly:
		return dailyRate.Mul(decimal.NewFromInt(int64(workingDays) * 2))
	case PayFrequencySemiMonthly:
		return annual.Div(decimal.NewFromInt(24))
	default: // MONTHLY
		return annual.Div(decimal.NewFromInt(12))
	}
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (RunResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := qtx.FindRunByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RunResponse{}, payrollerrors.ErrRunNotFound
		}
		return RunResponse{}, err
	}
	if run.Status != StatusCalculated {
		return RunResponse{}, payrollerrors.ErrInvalidStateTransition
	}

	now := s.now()
	run.Status = StatusApproved
	run.ApprovedBy = &actorUUID
	run.ApprovedAt = &now

	if err := qtx.UpdateRun(ctx, run); err != nil {
		return RunResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	s.logger.Info("payroll run approved",
		zap.String("run_id", id),
		zap.String("run_number", run.RunNumber),
	)
	return mapRunToResponse(*run), nil
}

// Process finalizes an approved run and enqueues its downstream events
// through the outbox, in the same transaction as the status change.
func (s *service) Process(ctx context.Context, companyID, actorID, id string) (RunResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := qtx.FindRunByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RunResponse{}, payrollerrors.ErrRunNotFound
		}
		return RunResponse{}, err
	}
	if run.Status != StatusApproved {
		return RunResponse{}, payrollerrors.ErrInvalidStateTransition
	}

	now := s.now()
	run.Status = StatusProcessed
	run.ProcessedBy = &actorUUID
	run.ProcessedAt = &now

	if err := qtx.UpdateRun(ctx, run); err != nil {
		return RunResponse{}, err
	}

	if s.outbox != nil {
		if err := s.enqueueProcessedEvents(ctx, tx, run, actorID); err != nil {
			return RunResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	s.logger.Info("payroll run processed",
		zap.String("run_id", id),
		zap.String("run_number", run.RunNumber),
		zap.Int("employees", run.EmployeeCount),
	)
	return mapRunToResponse(*run), nil
}

func (s *service) enqueueProcessedEvents(ctx context.Context, tx *sql.Tx, run *PayrollRun, actorID string) error {
	outboxTx := s.outbox.WithTx(tx)
	requestID := contextutil.GetRequestID(ctx)
	now := s.now()

	runPayload, err := json.Marshal(events.PayrollRunProcessedEvent{
		EventType:     "payroll_run_processed",
		RunID:         run.ID.String(),
		RunNumber:     run.RunNumber,
		CompanyID:     run.CompanyID.String(),
		PayDate:       run.PayDate.Format("2006-01-02"),
		EmployeeCount: run.EmployeeCount,
		TotalNet:      run.TotalNet.StringFixed(2),
		ProcessedBy:   actorID,
		OccurredAt:    now,
	})
	if err != nil {
		return err
	}
	err = outboxTx.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     requestID,
		AggregateType: "payroll_run",
		AggregateID:   run.ID.String(),
		EventType:     "payroll_run_processed",
		Topic:         events.PayrollRunProcessedTopic,
		Payload:       runPayload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		return err
	}

	records, err := s.repo.WithTx(tx).FindRecordsByRun(ctx, run.CompanyID.String(), run.ID.String())
	if err != nil {
		return err
	}
	for _, rec := range records {
		payload, err := json.Marshal(events.PayslipRequestedEvent{
			EventType:   "payslip_requested",
			RecordID:    rec.ID.String(),
			RunID:       run.ID.String(),
			CompanyID:   run.CompanyID.String(),
			RequestedBy: actorID,
			OccurredAt:  now,
		})
		if err != nil {
			return err
		}
		err = outboxTx.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.New().String(),
			RequestID:     requestID,
			AggregateType: "payroll_record",
			AggregateID:   rec.ID.String(),
			EventType:     "payslip_requested",
			Topic:         events.PayslipRequestedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]RunResponse, error) {
	runs, err := s.repo.FindAllRuns(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]RunResponse, len(runs))
	for i, run := range runs {
		resp[i] = mapRunToResponse(run)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (RunResponse, error) {
	run, err := s.repo.FindRunByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RunResponse{}, payrollerrors.ErrRunNotFound
		}
		return RunResponse{}, err
	}
	return mapRunToResponse(*run), nil
}

func (s *service) GetRecords(ctx context.Context, companyID, runID string) ([]RecordResponse, error) {
	if _, err := s.repo.FindRunByIDAndCompany(ctx, companyID, runID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrRunNotFound
		}
		return nil, err
	}

	records, err := s.repo.FindRecordsByRun(ctx, companyID, runID)
	if err != nil {
		return nil, err
	}
	resp := make([]RecordResponse, len(records))
	for i, rec := range records {
		resp[i] = mapRecordToResponse(rec)
	}
	return resp, nil
}

func (s *service) GeneratePayslip(ctx context.Context, companyID, recordID string) (RecordResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RecordResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := qtx.FindRecordByIDAndCompany(ctx, companyID, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RecordResponse{}, payrollerrors.ErrRecordNotFound
		}
		return RecordResponse{}, err
	}

	run, err := qtx.FindRunByIDAndCompany(ctx, companyID, rec.RunID.String())
	if err != nil {
		return RecordResponse{}, err
	}
	if run.Status != StatusApproved && run.Status != StatusProcessed {
		return RecordResponse{}, payrollerrors.ErrPayslipNotReady
	}

	pdf, err := buildSimplePayslipPDF(payslipLines(run, rec))
	if err != nil {
		return RecordResponse{}, err
	}

	storageDir := os.Getenv("PAYSLIP_STORAGE_DIR")
	if storageDir == "" {
		storageDir = "./payslips"
	}
	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return RecordResponse{}, err
	}

	filename := "payslip_" + recordID + ".pdf"
	if err := os.WriteFile(filepath.Join(storageDir, filename), pdf, 0o644); err != nil {
		return RecordResponse{}, err
	}

	baseURL := os.Getenv("PAYSLIP_PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "/files/payslips"
	}
	url := baseURL + "/" + filename
	now := s.now()
	rec.PayslipURL = &url
	rec.PayslipGeneratedAt = &now

	if err := qtx.UpdateRecord(ctx, rec); err != nil {
		return RecordResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return RecordResponse{}, err
	}

	s.logger.Info("payslip generated",
		zap.String("record_id", recordID),
		zap.String("run_number", run.RunNumber),
	)
	return mapRecordToResponse(*rec), nil
}

func payslipLines(run *PayrollRun, rec *PayrollRecord) []string {
	return []string{
		"Payslip " + run.RunNumber,
		"Period: " + run.PeriodStart.Format("2006-01-02") + " to " + run.PeriodEnd.Format("2006-01-02"),
		"Pay date: " + run.PayDate.Format("2006-01-02"),
		"Employee: " + rec.EmployeeID.String(),
		"Pay type: " + rec.PayType,
		"Regular hours: " + rec.RegularHours.StringFixed(2),
		"Overtime hours: " + rec.OvertimeHours.StringFixed(2),
		"Regular pay: " + rec.RegularPay.StringFixed(2),
		"Overtime pay: " + rec.OvertimePay.StringFixed(2),
		"Bonuses: " + rec.Bonuses.StringFixed(2),
		"Reimbursements: " + rec.Reimbursements.StringFixed(2),
		"Gross pay: " + rec.GrossPay.StringFixed(2),
		"Deductions: " + rec.TotalDeductions.StringFixed(2),
		"Tax: " + rec.TaxAmount.StringFixed(2),
		"Net pay: " + rec.NetPay.StringFixed(2),
	}
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, payrollerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapRunToResponse(run PayrollRun) RunResponse {
	resp := RunResponse{
		ID:                   run.ID.String(),
		CompanyID:            run.CompanyID.String(),
		RunNumber:            run.RunNumber,
		PeriodStart:          run.PeriodStart.Format("2006-01-02"),
		PeriodEnd:            run.PeriodEnd.Format("2006-01-02"),
		PayDate:              run.PayDate.Format("2006-01-02"),
		PayFrequency:         run.PayFrequency,
		Status:               run.Status,
		EmployeeCount:        run.EmployeeCount,
		TotalGross:           run.TotalGross.StringFixed(2),
		TotalDeductions:      run.TotalDeductions.StringFixed(2),
		TotalTax:             run.TotalTax.StringFixed(2),
		TotalNet:             run.TotalNet.StringFixed(2),
		TotalEmployerContrib: run.TotalEmployerContrib.StringFixed(2),
		TaxPolicy:            run.TaxPolicy,
		CreatedBy:            run.CreatedBy.String(),
	}
	if run.CalculatedAt != nil {
		v := run.CalculatedAt.Format(time.RFC3339)
		resp.CalculatedAt = &v
	}
	if run.ApprovedBy != nil {
		v := run.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if run.ApprovedAt != nil {
		v := run.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if run.ProcessedBy != nil {
		v := run.ProcessedBy.String()
		resp.ProcessedBy = &v
	}
	if run.ProcessedAt != nil {
		v := run.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &v
	}
	return resp
}

func mapRecordToResponse(rec PayrollRecord) RecordResponse {
	resp := RecordResponse{
		ID:              rec.ID.String(),
		RunID:           rec.RunID.String(),
		EmployeeID:      rec.EmployeeID.String(),
		TimesheetID:     rec.TimesheetID.String(),
		PayType:         rec.PayType,
		RateUsed:        rec.RateUsed.StringFixed(4),
		RegularHours:    rec.RegularHours.StringFixed(2),
		OvertimeHours:   rec.OvertimeHours.StringFixed(2),
		RegularPay:      rec.RegularPay.StringFixed(2),
		OvertimePay:     rec.OvertimePay.StringFixed(2),
		Bonuses:         rec.Bonuses.StringFixed(2),
		Reimbursements:  rec.Reimbursements.StringFixed(2),
		GrossPay:        rec.GrossPay.StringFixed(2),
		TotalDeductions: rec.TotalDeductions.StringFixed(2),
		TaxAmount:       rec.TaxAmount.StringFixed(2),
		NetPay:          rec.NetPay.StringFixed(2),
		EmployerContrib: rec.EmployerContrib.StringFixed(2),
	}
	resp.PayslipURL = rec.PayslipURL
	if rec.PayslipGeneratedAt != nil {
		v := rec.PayslipGeneratedAt.Format(time.RFC3339)
		resp.PayslipGeneratedAt = &v
	}
	return resp
}
