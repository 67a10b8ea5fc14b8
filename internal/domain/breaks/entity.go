package breaks

import "time"

// DefaultDurationLimitMinutes applies when a break row carries no limit of
// its own and to every legacy inline break.
const DefaultDurationLimitMinutes = 60

// EmployeeBreak is a normalized break instance. Multiple breaks per
// attendance record are permitted.
type EmployeeBreak struct {
	ID              string
	AttendanceID    string
	UserID          string
	BreakDate       time.Time
	BreakType       string
	DurationLimit   int
	BreakStart      time.Time
	BreakEnd        *time.Time
	DurationMinutes int
	PenaltyMinutes  int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// LimitMinutes returns the break's duration limit, falling back to the
// default when unset.
func (b EmployeeBreak) LimitMinutes() int {
	if b.DurationLimit <= 0 {
		return DefaultDurationLimitMinutes
	}
	return b.DurationLimit
}
