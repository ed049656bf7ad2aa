package employee

type EmployeeResponse struct {
	ID                 string  `json:"id"`
	CompanyID          string  `json:"company_id"`
	EmployeeNumber     string  `json:"employee_number"`
	FullName           string  `json:"full_name"`
	Email              string  `json:"email,omitempty"`
	Active             bool    `json:"active"`
	DepartmentID       *string `json:"department_id,omitempty"`
	PayType            string  `json:"pay_type"`
	HourlyRate         *string `json:"hourly_rate,omitempty"`
	AnnualSalary       *string `json:"annual_salary,omitempty"`
	PayFrequency       string  `json:"pay_frequency"`
	WorkingDaysPerWeek int     `json:"working_days_per_week"`
	AttendanceRuleID   *string `json:"attendance_rule_id,omitempty"`
}
