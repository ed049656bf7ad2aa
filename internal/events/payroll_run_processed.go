package events

import "time"

const PayrollRunProcessedTopic = "wf.payroll.run.processed.v1"

type PayrollRunProcessedEvent struct {
	EventType     string    `json:"event_type"`
	RunID         string    `json:"run_id"`
	RunNumber     string    `json:"run_number"`
	CompanyID     string    `json:"company_id"`
	PayDate       string    `json:"pay_date"`
	EmployeeCount int       `json:"employee_count"`
	TotalNet      string    `json:"total_net"`
	ProcessedBy   string    `json:"processed_by"`
	OccurredAt    time.Time `json:"occurred_at"`
}
