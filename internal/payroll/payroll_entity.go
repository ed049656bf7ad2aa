package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusDraft       = "DRAFT"
	StatusCalculating = "CALCULATING"
	StatusCalculated  = "CALCULATED"
	StatusApproved    = "APPROVED"
	StatusProcessed   = "PROCESSED"
)

const (
	PayTypeHourly   = "HOURLY"
	PayTypeSalaried = "SALARIED"
)

const (
	PayFrequencyWeekly      = "WEEKLY"
	PayFrequencyBiweekly    = "BIWEEKLY"
	PayFrequencySemiMonthly = "SEMI_MONTHLY"
	PayFrequencyMonthly     = "MONTHLY"
)

// PayrollRun is the unit of work for one pay period. CALCULATING is a
// short-lived lock state: entering it happens through a conditional
// update, so two concurrent calculations of the same run cannot both
// proceed.
type PayrollRun struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_payroll_run_number,unique"`
	RunNumber string    `gorm:"type:varchar(20);not null;index:idx_payroll_run_number,unique"`

	PeriodStart  time.Time `gorm:"type:date;not null"`
	PeriodEnd    time.Time `gorm:"type:date;not null"`
	PayDate      time.Time `gorm:"type:date;not null"`
	PayFrequency string    `gorm:"type:varchar(15);not null;default:'MONTHLY'"`

	Status string `gorm:"type:varchar(20);not null;default:'DRAFT'"`

	EmployeeCount         int             `gorm:"not null;default:0"`
	TotalGross            decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalDeductions       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalTax              decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalNet              decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalEmployerContrib  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TaxPolicy             string          `gorm:"type:varchar(40);not null;default:''"`

	CreatedBy    uuid.UUID `gorm:"type:uuid;not null"`
	CalculatedAt *time.Time
	ApprovedBy   *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt   *time.Time
	ProcessedBy  *uuid.UUID `gorm:"type:uuid"`
	ProcessedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PayrollRun) TableName() string {
	return "payroll_runs"
}

// PayrollRecord is one employee's itemized line in a run. Records are
// replaced wholesale on every calculation, never patched.
type PayrollRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	RunID      uuid.UUID `gorm:"type:uuid;not null;index:idx_payroll_record_run,unique"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_payroll_record_run,unique"`

	TimesheetID uuid.UUID `gorm:"type:uuid;not null"`
	PayType     string    `gorm:"type:varchar(10);not null"`

	RateUsed      decimal.Decimal `gorm:"type:numeric(12,4);not null;default:0"`
	RegularHours  decimal.Decimal `gorm:"type:numeric(7,2);not null;default:0"`
	OvertimeHours decimal.Decimal `gorm:"type:numeric(7,2);not null;default:0"`

	RegularPay      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	OvertimePay     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Bonuses         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Reimbursements  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	GrossPay        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	TotalDeductions decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	TaxAmount       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	NetPay          decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	EmployerContrib decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`

	PayslipURL         *string `gorm:"type:text"`
	PayslipGeneratedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PayrollRecord) TableName() string {
	return "payroll_records"
}

// TimesheetRow is the approved-timesheet projection the calculator
// consumes. Local type, shared table.
type TimesheetRow struct {
	ID                 uuid.UUID       `gorm:"column:id"`
	EmployeeID         uuid.UUID       `gorm:"column:employee_id"`
	TotalRegularHours  decimal.Decimal `gorm:"column:total_regular_hours"`
	TotalOvertimeHours decimal.Decimal `gorm:"column:total_overtime_hours"`
}

// PayProfile joins an employee's compensation attributes with the
// overtime parameters of their attendance rule (or the company
// default). Everything the per-employee calculation needs, in one row.
type PayProfile struct {
	EmployeeID         uuid.UUID        `gorm:"column:id"`
	FullName           string           `gorm:"column:full_name"`
	PayType            string           `gorm:"column:pay_type"`
	HourlyRate         *decimal.Decimal `gorm:"column:hourly_rate"`
	AnnualSalary       *decimal.Decimal `gorm:"column:annual_salary"`
	PayFrequency       string           `gorm:"column:pay_frequency"`
	WorkingDaysPerWeek int              `gorm:"column:working_days_per_week"`
	OvertimeMultiplier decimal.Decimal  `gorm:"column:overtime_multiplier"`
	RegularHoursPerDay decimal.Decimal  `gorm:"column:regular_hours_per_day"`
}
