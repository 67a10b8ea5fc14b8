package shift

import (
	"math"
	"time"
)

// SpanMinutes returns the whole minutes between in and out. When out sorts
// before in the pair came from a shift that wrapped midnight with the date
// part lost, so out is pushed to the next calendar day first.
func SpanMinutes(in, out time.Time) int {
	if out.Before(in) {
		out = out.AddDate(0, 0, 1)
	}
	return int(out.Sub(in).Minutes())
}

// WorkedHours derives hours worked from a check-in/check-out pair and the
// total break minutes, rounded to two decimals and clamped at zero.
func WorkedHours(in, out time.Time, breakMinutes int) float64 {
	total := SpanMinutes(in, out) - breakMinutes
	if total < 0 {
		total = 0
	}
	return math.Round(float64(total)/60.0*100) / 100
}

// HoursEpsilon is the persistence threshold for recomputed hours: stored
// values within this distance of the fresh value are left untouched so
// re-runs do not churn rows or spam the audit log.
const HoursEpsilon = 0.01
