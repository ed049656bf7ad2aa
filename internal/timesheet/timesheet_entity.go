package timesheet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusGenerated = "GENERATED"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
)

// Timesheet is a pure projection of approved attendance and approved
// leave over one period. It carries no hand-entered figures: every
// regeneration rebuilds the row from source records, so stale totals can
// never survive a correction upstream.
type Timesheet struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_timesheet_period,unique"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_timesheet_period,unique"`

	PeriodStart time.Time `gorm:"type:date;not null;index:idx_timesheet_period,unique"`
	PeriodEnd   time.Time `gorm:"type:date;not null;index:idx_timesheet_period,unique"`

	TotalRegularHours  decimal.Decimal `gorm:"type:numeric(7,2);not null;default:0"`
	TotalOvertimeHours decimal.Decimal `gorm:"type:numeric(7,2);not null;default:0"`

	PresentDays int             `gorm:"not null;default:0"`
	AbsentDays  int             `gorm:"not null;default:0"`
	HalfDays    int             `gorm:"not null;default:0"`
	LateDays    int             `gorm:"not null;default:0"`
	LeaveDays   decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	LeaveHours  decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`

	Status      string    `gorm:"type:varchar(20);not null;default:'GENERATED'"`
	GeneratedAt time.Time `gorm:"not null"`
	GeneratedBy uuid.UUID `gorm:"type:uuid;not null"`

	ReviewedBy *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt *time.Time
	Remarks    *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Timesheet) TableName() string {
	return "timesheets"
}

// AttendanceRow is the slice of an attendance record the aggregator
// reads. Kept local so this package does not import the attendance
// entity; the table is shared, the Go types are not.
type AttendanceRow struct {
	EmployeeID     uuid.UUID       `gorm:"column:employee_id"`
	AttendanceDate time.Time       `gorm:"column:attendance_date"`
	Status         string          `gorm:"column:status"`
	RegularHours   decimal.Decimal `gorm:"column:regular_hours"`
	OvertimeHours  decimal.Decimal `gorm:"column:overtime_hours"`
}

// LeaveRow mirrors the approved-leave columns the aggregator needs.
type LeaveRow struct {
	EmployeeID uuid.UUID       `gorm:"column:employee_id"`
	StartDate  time.Time       `gorm:"column:start_date"`
	EndDate    time.Time       `gorm:"column:end_date"`
	Hourly     bool            `gorm:"column:hourly"`
	TotalHours decimal.Decimal `gorm:"column:total_hours"`
}

// EmployeeRef is the minimal employee projection used to enumerate who
// gets a timesheet in a generation run.
type EmployeeRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
