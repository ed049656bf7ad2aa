package consumer

import (
	"context"
	"encoding/json"

	"go-workforce/internal/events"
	"go-workforce/internal/payroll"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePayslipRequested renders a payslip PDF for every requested
// payroll record. Messages with undecodable payloads are committed and
// dropped; transient generation failures leave the message uncommitted
// so it is retried.
func ConsumePayslipRequested(
	ctx context.Context,
	reader *kafkago.Reader,
	payrollService payroll.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payslip")
	log.Info("payslip consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payslip consumer stopped")
				return
			}
			log.Error("fetch payslip message failed", zap.Error(err))
			continue
		}

		var event events.PayslipRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payslip event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		_, err = payrollService.GeneratePayslip(ctx, event.CompanyID, event.RecordID)
		if err != nil {
			log.Error("generate payslip failed",
				zap.String("record_id", event.RecordID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payslip message failed", zap.Error(err))
			continue
		}

		log.Info("payslip generated from event",
			zap.String("record_id", event.RecordID),
			zap.String("company_id", event.CompanyID),
		)
	}
}
