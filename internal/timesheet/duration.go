package timesheet

import (
	"math"
	"time"

	"github.com/crewclock/crewclock/internal/apperr"
	"github.com/crewclock/crewclock/internal/models"
)

// The break rule: once a duration strictly exceeds BreakThreshold, a flat
// BreakDeduction is subtracted. This is the single global policy applied
// everywhere a duration is computed, so displayed totals and exported
// totals always agree.
const (
	BreakThreshold = 7 * time.Hour
	BreakDeduction = 30 * time.Minute
)

// RawDuration returns clockOut - clockIn. A negative result is a
// data-integrity error, never silently clamped.
func RawDuration(clockIn, clockOut time.Time) (time.Duration, error) {
	d := clockOut.Sub(clockIn)
	if d < 0 {
		return 0, apperr.Validation("clock-out time %s is before clock-in time %s",
			clockOut.Format(time.RFC3339), clockIn.Format(time.RFC3339))
	}
	return d, nil
}

// ApplyBreak subtracts the flat break deduction when d strictly exceeds
// the threshold. A duration of exactly seven hours is not deducted.
func ApplyBreak(d time.Duration) time.Duration {
	if d > BreakThreshold {
		return d - BreakDeduction
	}
	return d
}

// EntryDuration computes the break-adjusted duration of a single entry.
// An open entry (no clock-out) has no defined duration and contributes
// zero to any aggregate. The bool reports whether the break was deducted.
func EntryDuration(e *models.TimeEntry) (time.Duration, bool, error) {
	if e.ClockOutTime == nil {
		return 0, false, nil
	}
	raw, err := RawDuration(e.ClockInTime, *e.ClockOutTime)
	if err != nil {
		return 0, false, err
	}
	adjusted := ApplyBreak(raw)
	return adjusted, adjusted != raw, nil
}

// Hours converts a duration to fractional hours without rounding.
func Hours(d time.Duration) float64 {
	return float64(d.Milliseconds()) / (1000 * 60 * 60)
}

// Round2 rounds to two decimal places. Applied only at presentation and
// export boundaries, never mid-computation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
