package attendance_test

import (
	"testing"
	"time"

	"go-workforce/internal/attendance"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func standardRule() attendance.AttendanceRule {
	return attendance.AttendanceRule{
		StandardStartTime:     "09:00",
		StandardEndTime:       "18:00",
		RegularHoursPerDay:    decimal.NewFromInt(8),
		BreakDurationMinutes:  60,
		AutoDeductBreak:       true,
		OvertimeEnabled:       true,
		OvertimeMultiplier:    decimal.RequireFromString("1.5"),
		MaxOvertimeHoursDaily: decimal.NewFromInt(4),
		HalfDayThresholdHours: decimal.NewFromInt(4),
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func TestComputeHours_FullDay(t *testing.T) {
	regular, overtime := attendance.ComputeHours(at(9, 0), at(18, 0), standardRule())

	assert.Equal(t, "8.00", regular.StringFixed(2))
	assert.Equal(t, "0.00", overtime.StringFixed(2))
}

func TestComputeHours_WithOvertime(t *testing.T) {
	regular, overtime := attendance.ComputeHours(at(9, 0), at(19, 30), standardRule())

	assert.Equal(t, "8.00", regular.StringFixed(2))
	assert.Equal(t, "1.50", overtime.StringFixed(2))
}

func TestComputeHours_OvertimeDisabled(t *testing.T) {
	rule := standardRule()
	rule.OvertimeEnabled = false

	regular, overtime := attendance.ComputeHours(at(9, 0), at(20, 0), rule)

	assert.Equal(t, "8.00", regular.StringFixed(2))
	assert.Equal(t, "0.00", overtime.StringFixed(2))
}

func TestComputeHours_OvertimeCappedAtDailyMax(t *testing.T) {
	regular, overtime := attendance.ComputeHours(at(9, 0), at(23, 0), standardRule())

	assert.Equal(t, "8.00", regular.StringFixed(2))
	assert.Equal(t, "4.00", overtime.StringFixed(2))
}

func TestComputeHours_ShortDay(t *testing.T) {
	regular, overtime := attendance.ComputeHours(at(9, 0), at(12, 30), standardRule())

	// 3.5h minus the 1h break
	assert.Equal(t, "2.50", regular.StringFixed(2))
	assert.Equal(t, "0.00", overtime.StringFixed(2))
}

func TestComputeHours_BreakLongerThanShift(t *testing.T) {
	regular, overtime := attendance.ComputeHours(at(9, 0), at(9, 30), standardRule())

	assert.Equal(t, "0.00", regular.StringFixed(2))
	assert.Equal(t, "0.00", overtime.StringFixed(2))
}

func TestComputeHours_NoBreakDeduction(t *testing.T) {
	rule := standardRule()
	rule.AutoDeductBreak = false

	regular, overtime := attendance.ComputeHours(at(9, 0), at(18, 0), rule)

	assert.Equal(t, "8.00", regular.StringFixed(2))
	assert.Equal(t, "1.00", overtime.StringFixed(2))
}
