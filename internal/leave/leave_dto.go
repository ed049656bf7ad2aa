package leave

type CreateLeaveRequest struct {
	LeaveTypeID string  `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     string  `json:"end_date" binding:"required"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Reason      string  `json:"reason"`
}

type RejectLeaveRequest struct {
	Remarks string `json:"remarks" binding:"required"`
}

type ApproveLeaveRequest struct {
	Remarks *string `json:"remarks"`
}

type LeaveResponse struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id"`
	EmployeeID  string `json:"employee_id"`
	LeaveTypeID string `json:"leave_type_id"`

	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	Hourly    bool    `json:"hourly"`

	TotalDays  string `json:"total_days"`
	TotalHours string `json:"total_hours"`
	Reason     string `json:"reason"`
	Status     string `json:"status"`

	ManagerApprovalStatus *string `json:"manager_approval_status,omitempty"`
	ManagerApprovedBy     *string `json:"manager_approved_by,omitempty"`
	ManagerApprovedAt     *string `json:"manager_approved_at,omitempty"`
	ManagerRemarks        *string `json:"manager_remarks,omitempty"`

	HRApprovalStatus *string `json:"hr_approval_status,omitempty"`
	HRApprovedBy     *string `json:"hr_approved_by,omitempty"`
	HRApprovedAt     *string `json:"hr_approved_at,omitempty"`
	HRRemarks        *string `json:"hr_remarks,omitempty"`

	CreatedBy string `json:"created_by"`
}

type BalanceResponse struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	LeaveTypeID string `json:"leave_type_id"`
	Year        int    `json:"year"`

	OpeningBalance string `json:"opening_balance"`
	Credited       string `json:"credited"`
	CarryForward   string `json:"carry_forward"`
	Used           string `json:"used"`
	Pending        string `json:"pending"`
	Lapsed         string `json:"lapsed"`
	Encashed       string `json:"encashed"`
	Available      string `json:"available"`
}

type ActivityResponse struct {
	ID        string  `json:"id"`
	Action    string  `json:"action"`
	ActorID   string  `json:"actor_id"`
	OldStatus string  `json:"old_status"`
	NewStatus string  `json:"new_status"`
	Remarks   *string `json:"remarks,omitempty"`
	CreatedAt string  `json:"created_at"`
}
