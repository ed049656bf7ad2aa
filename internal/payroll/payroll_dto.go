package payroll

type CreateRunRequest struct {
	PeriodStart  string `json:"period_start" binding:"required"`
	PeriodEnd    string `json:"period_end" binding:"required"`
	PayDate      string `json:"pay_date" binding:"omitempty"`
	PayFrequency string `json:"pay_frequency" binding:"omitempty,oneof=WEEKLY BIWEEKLY SEMI_MONTHLY MONTHLY"`
}

type RunResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	RunNumber string `json:"run_number"`

	PeriodStart  string `json:"period_start"`
	PeriodEnd    string `json:"period_end"`
	PayDate      string `json:"pay_date"`
	PayFrequency string `json:"pay_frequency"`
	Status       string `json:"status"`

	EmployeeCount        int    `json:"employee_count"`
	TotalGross           string `json:"total_gross"`
	TotalDeductions      string `json:"total_deductions"`
	TotalTax             string `json:"total_tax"`
	TotalNet             string `json:"total_net"`
	TotalEmployerContrib string `json:"total_employer_contributions"`
	TaxPolicy            string `json:"tax_policy,omitempty"`

	CreatedBy    string  `json:"created_by"`
	CalculatedAt *string `json:"calculated_at,omitempty"`
	ApprovedBy   *string `json:"approved_by,omitempty"`
	ApprovedAt   *string `json:"approved_at,omitempty"`
	ProcessedBy  *string `json:"processed_by,omitempty"`
	ProcessedAt  *string `json:"processed_at,omitempty"`
}

type RecordResponse struct {
	ID          string `json:"id"`
	RunID       string `json:"run_id"`
	EmployeeID  string `json:"employee_id"`
	TimesheetID string `json:"timesheet_id"`
	PayType     string `json:"pay_type"`

	RateUsed      string `json:"rate_used"`
	RegularHours  string `json:"regular_hours"`
	OvertimeHours string `json:"overtime_hours"`

	RegularPay      string `json:"regular_pay"`
	OvertimePay     string `json:"overtime_pay"`
	Bonuses         string `json:"bonuses"`
	Reimbursements  string `json:"reimbursements"`
	GrossPay        string `json:"gross_pay"`
	TotalDeductions string `json:"total_deductions"`
	TaxAmount       string `json:"tax_amount"`
	NetPay          string `json:"net_pay"`
	EmployerContrib string `json:"employer_contributions"`

	PayslipURL         *string `json:"payslip_url,omitempty"`
	PayslipGeneratedAt *string `json:"payslip_generated_at,omitempty"`
}
