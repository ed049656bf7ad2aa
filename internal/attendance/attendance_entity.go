package attendance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusWorking = "WORKING"
	StatusPresent = "PRESENT"
	StatusAbsent  = "ABSENT"
	StatusHalfDay = "HALF_DAY"
	StatusLate    = "LATE"
)

const (
	ApprovalPending  = "PENDING"
	ApprovalApproved = "APPROVED"
	ApprovalRejected = "REJECTED"
)

// AttendanceRecord holds one employee-day, at most one row per employee
// per date (backed by the unique index). An open record has ClockIn set
// and ClockOut null. RegularHours/OvertimeHours are derived from the
// clock times and the resolved rule, except for manual entries that
// supply hours directly.
type AttendanceRecord struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	EmployeeID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_attendance_employee_date,unique"`
	AttendanceDate time.Time  `gorm:"type:date;not null;index:idx_attendance_employee_date,unique"`
	ClockIn        *time.Time `gorm:"type:timestamptz"`
	ClockOut       *time.Time `gorm:"type:timestamptz"`

	Status        string          `gorm:"type:varchar(20);not null;default:'WORKING'"`
	RegularHours  decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	OvertimeHours decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	CaptureMethod string          `gorm:"type:varchar(30);not null;default:'WEB'"`

	ApprovalStatus string     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ApprovedBy     *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt     *time.Time
	Remarks        *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// AttendanceRule is the policy an employee's hours are computed against.
// Exactly one rule per company has IsDefault=true; employees may point at a
// specific rule, everyone else falls back to the default.
type AttendanceRule struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(80);not null"`

	StandardStartTime  string          `gorm:"type:varchar(5);not null;default:'09:00'"`
	StandardEndTime    string          `gorm:"type:varchar(5);not null;default:'18:00'"`
	RegularHoursPerDay decimal.Decimal `gorm:"type:numeric(4,2);not null;default:8"`
	GraceMinutesIn     int             `gorm:"not null;default:0"`
	GraceMinutesOut    int             `gorm:"not null;default:0"`

	BreakDurationMinutes int  `gorm:"not null;default:60"`
	AutoDeductBreak      bool `gorm:"not null;default:true"`

	OvertimeEnabled        bool            `gorm:"not null;default:true"`
	OvertimeMultiplier     decimal.Decimal `gorm:"type:numeric(4,2);not null;default:1.5"`
	MaxOvertimeHoursDaily  decimal.Decimal `gorm:"type:numeric(4,2);not null;default:4"`
	MaxOvertimeHoursWeekly decimal.Decimal `gorm:"type:numeric(5,2);not null;default:20"`

	HalfDayThresholdHours decimal.Decimal `gorm:"type:numeric(4,2);not null;default:4"`
	IsDefault             bool            `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (AttendanceRule) TableName() string {
	return "attendance_rules"
}

type EmployeeRef struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FullName         string     `gorm:"column:full_name"`
	AttendanceRuleID *uuid.UUID `gorm:"type:uuid"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
