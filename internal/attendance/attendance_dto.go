package attendance

type ClockInRequest struct {
	CaptureMethod string  `json:"capture_method"`
	Remarks       *string `json:"remarks"`
}

type ManualEntryRequest struct {
	EmployeeID    string  `json:"employee_id" binding:"required,uuid"`
	Date          string  `json:"date" binding:"required"`
	ClockIn       *string `json:"clock_in"`
	ClockOut      *string `json:"clock_out"`
	RegularHours  *string `json:"regular_hours"`
	OvertimeHours *string `json:"overtime_hours"`
	Status        string  `json:"status" binding:"omitempty,oneof=PRESENT ABSENT HALF_DAY LATE WORKING"`
	Remarks       *string `json:"remarks"`
}

type RejectRequest struct {
	Remarks string `json:"remarks" binding:"required"`
}

type BulkApproveRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

type BulkApproveResponse struct {
	Approved int `json:"approved"`
	Skipped  int `json:"skipped"`
}

type QueryFilter struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	DateFrom   string `form:"date_from"`
	DateTo     string `form:"date_to"`
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	CompanyID      string  `json:"company_id"`
	EmployeeID     string  `json:"employee_id"`
	AttendanceDate string  `json:"attendance_date"`
	ClockIn        *string `json:"clock_in,omitempty"`
	ClockOut       *string `json:"clock_out,omitempty"`
	Status         string  `json:"status"`
	RegularHours   string  `json:"regular_hours"`
	OvertimeHours  string  `json:"overtime_hours"`
	CaptureMethod  string  `json:"capture_method"`
	ApprovalStatus string  `json:"approval_status"`
	ApprovedBy     *string `json:"approved_by,omitempty"`
	ApprovedAt     *string `json:"approved_at,omitempty"`
	Remarks        *string `json:"remarks,omitempty"`
}
