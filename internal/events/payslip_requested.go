package events

import "time"

const PayslipRequestedTopic = "wf.payroll.payslip.requested.v1"

type PayslipRequestedEvent struct {
	EventType   string    `json:"event_type"`
	RecordID    string    `json:"record_id"`
	RunID       string    `json:"run_id"`
	CompanyID   string    `json:"company_id"`
	RequestedBy string    `json:"requested_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
