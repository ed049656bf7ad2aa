package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	UnitDays  = "DAYS"
	UnitHours = "HOURS"
)

const (
	StatusPendingManager = "PENDING_MANAGER"
	StatusPendingHR      = "PENDING_HR"
	StatusApproved       = "APPROVED"
	StatusRejected       = "REJECTED"
	StatusCancelled      = "CANCELLED"
)

const (
	ActionSubmit         = "SUBMIT"
	ActionManagerApprove = "MANAGER_APPROVE"
	ActionManagerReject  = "MANAGER_REJECT"
	ActionHRApprove      = "HR_APPROVE"
	ActionHRReject       = "HR_REJECT"
	ActionCancel         = "CANCEL"
)

const (
	ApprovalApproved = "APPROVED"
	ApprovalRejected = "REJECTED"
)

type transitionKey struct {
	from   string
	action string
}

// transitions is the full two-level approval state machine. Any
// {state, action} pair absent from this map is an invalid transition;
// there is no other path between states.
var transitions = map[transitionKey]string{
	{StatusPendingManager, ActionManagerApprove}: StatusPendingHR,
	{StatusPendingManager, ActionManagerReject}:  StatusRejected,
	{StatusPendingManager, ActionCancel}:         StatusCancelled,
	{StatusPendingHR, ActionHRApprove}:           StatusApproved,
	{StatusPendingHR, ActionHRReject}:            StatusRejected,
	{StatusPendingHR, ActionCancel}:              StatusCancelled,
}

func nextStatus(from, action string) (string, bool) {
	to, ok := transitions[transitionKey{from: from, action: action}]
	return to, ok
}

type LeaveType struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(60);not null"`
	Unit        string    `gorm:"type:varchar(10);not null;default:'DAYS'"`
	AllowHourly bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (LeaveType) TableName() string {
	return "leave_types"
}

// LeaveBalance is one employee's bucket for one leave type and year.
// Revision implements optimistic versioning: every write goes through a
// compare-and-swap on it, so concurrent mutations of the same row retry
// instead of losing updates, and unrelated employees never contend.
type LeaveBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_balance_lookup,unique"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_balance_lookup,unique"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;index:idx_balance_lookup,unique"`
	Year        int       `gorm:"not null;index:idx_balance_lookup,unique"`

	OpeningBalance decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	Credited       decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	CarryForward   decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	Used           decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	Pending        decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	Lapsed         decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	Encashed       decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`

	Revision  int64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

// Available is the derived headroom a new request is checked against.
func (b LeaveBalance) Available() decimal.Decimal {
	return b.OpeningBalance.
		Add(b.Credited).
		Add(b.CarryForward).
		Sub(b.Used).
		Sub(b.Pending).
		Sub(b.Lapsed).
		Sub(b.Encashed)
}

type LeaveRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_company_status"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null"`

	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	StartTime *string   `gorm:"type:varchar(5)"`
	EndTime   *string   `gorm:"type:varchar(5)"`
	Hourly    bool      `gorm:"not null;default:false"`

	TotalDays  decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	TotalHours decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	Reason     string          `gorm:"type:text"`

	Status string `gorm:"type:varchar(20);not null;default:'PENDING_MANAGER';index:idx_leave_requests_company_status"`

	ManagerApprovalStatus *string `gorm:"type:varchar(20)"`
	ManagerApprovedBy     *uuid.UUID
	ManagerApprovedAt     *time.Time
	ManagerRemarks        *string `gorm:"type:text"`

	HRApprovalStatus *string `gorm:"type:varchar(20)"`
	HRApprovedBy     *uuid.UUID
	HRApprovedAt     *time.Time
	HRRemarks        *string `gorm:"type:text"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// Amount is the balance-relevant quantity: hours for hourly requests,
// days otherwise.
func (r LeaveRequest) Amount() decimal.Decimal {
	if r.Hourly {
		return r.TotalHours
	}
	return r.TotalDays
}

// LeaveActivity is the append-only audit trail behind the request
// timeline. Rows are inserted on every transition and never updated or
// deleted; this log is the authoritative evidence for audits.
type LeaveActivity struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID `gorm:"type:uuid;not null;index"`
	LeaveRequestID uuid.UUID `gorm:"type:uuid;not null;index"`
	Action         string    `gorm:"type:varchar(30);not null"`
	ActorID        uuid.UUID `gorm:"type:uuid;not null"`
	OldStatus      string    `gorm:"type:varchar(20);not null"`
	NewStatus      string    `gorm:"type:varchar(20);not null"`
	Remarks        *string   `gorm:"type:text"`
	CreatedAt      time.Time
}

func (LeaveActivity) TableName() string {
	return "leave_activities"
}
