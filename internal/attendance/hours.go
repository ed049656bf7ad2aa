package attendance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

// ComputeHours derives (regular, overtime) from a closed clock pair and the
// applicable rule. Worked time is the clock span minus the break when the
// rule auto-deducts it; regular hours cap at RegularHoursPerDay and the
// remainder becomes overtime, capped at MaxOvertimeHoursDaily when overtime
// is enabled and zero otherwise. Both results round to 2 decimal places,
// half-up. The function is pure: recomputing over the same inputs always
// yields the same split.
func ComputeHours(clockIn, clockOut time.Time, rule AttendanceRule) (regular, overtime decimal.Decimal) {
	workedMinutes := clockOut.Sub(clockIn).Minutes()
	if rule.AutoDeductBreak {
		workedMinutes -= float64(rule.BreakDurationMinutes)
	}
	if workedMinutes < 0 {
		workedMinutes = 0
	}

	worked := decimal.NewFromFloat(workedMinutes).Div(minutesPerHour)

	regular = decimal.Min(worked, rule.RegularHoursPerDay)
	if rule.OvertimeEnabled {
		overtime = decimal.Max(decimal.Zero, worked.Sub(rule.RegularHoursPerDay))
		overtime = decimal.Min(overtime, rule.MaxOvertimeHoursDaily)
	} else {
		overtime = decimal.Zero
	}

	return regular.Round(2), overtime.Round(2)
}

// isLate reports whether clockIn falls past the rule's standard start plus
// the inbound grace window, compared on the clock-in's own calendar date.
func isLate(clockIn time.Time, rule AttendanceRule) bool {
	start, err := parseTimeOfDay(clockIn, rule.StandardStartTime)
	if err != nil {
		return false
	}
	cutoff := start.Add(time.Duration(rule.GraceMinutesIn) * time.Minute)
	return clockIn.After(cutoff)
}

// closedStatus picks the day's final status once the record is closed.
func closedStatus(current string, worked decimal.Decimal, rule AttendanceRule) string {
	if worked.LessThan(rule.HalfDayThresholdHours) {
		return StatusHalfDay
	}
	if current == StatusLate {
		return StatusLate
	}
	return StatusPresent
}

// parseTimeOfDay anchors an "HH:MM" rule time onto ref's calendar date in
// ref's location.
func parseTimeOfDay(ref time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q: %w", hhmm, err)
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour(), t.Minute(), 0, 0, ref.Location()), nil
}
