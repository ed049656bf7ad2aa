package timesheet

type GenerateRequest struct {
	PeriodStart string   `json:"period_start" binding:"required"`
	PeriodEnd   string   `json:"period_end" binding:"required"`
	EmployeeIDs []string `json:"employee_ids" binding:"omitempty,dive,uuid"`
}

type GenerateResponse struct {
	Generated  int                 `json:"generated"`
	Skipped    int                 `json:"skipped"`
	Timesheets []TimesheetResponse `json:"timesheets"`
}

type RejectTimesheetRequest struct {
	Remarks string `json:"remarks" binding:"required"`
}

type QueryFilter struct {
	EmployeeID  string `form:"employee_id" binding:"omitempty,uuid"`
	PeriodStart string `form:"period_start"`
	PeriodEnd   string `form:"period_end"`
	Status      string `form:"status" binding:"omitempty,oneof=GENERATED APPROVED REJECTED"`
}

type TimesheetResponse struct {
	ID         string `json:"id"`
	CompanyID  string `json:"company_id"`
	EmployeeID string `json:"employee_id"`

	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`

	TotalRegularHours  string `json:"total_regular_hours"`
	TotalOvertimeHours string `json:"total_overtime_hours"`

	PresentDays int    `json:"present_days"`
	AbsentDays  int    `json:"absent_days"`
	HalfDays    int    `json:"half_days"`
	LateDays    int    `json:"late_days"`
	LeaveDays   string `json:"leave_days"`
	LeaveHours  string `json:"leave_hours"`

	Status      string  `json:"status"`
	GeneratedAt string  `json:"generated_at"`
	GeneratedBy string  `json:"generated_by"`
	ReviewedBy  *string `json:"reviewed_by,omitempty"`
	ReviewedAt  *string `json:"reviewed_at,omitempty"`
	Remarks     *string `json:"remarks,omitempty"`
}
