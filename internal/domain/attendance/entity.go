package attendance

import "time"

// Status is the closed set of attendance states. Records are created
// pending and only ever leave pending through a check-in, the absence
// sweep, or an administrative edit.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPresent   Status = "present"
	StatusLate      Status = "late"
	StatusAbsent    Status = "absent"
	StatusExcused   Status = "excused"
	StatusLeftEarly Status = "left_early"
)

// AllStatuses returns every valid attendance status.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusPresent,
		StatusLate,
		StatusAbsent,
		StatusExcused,
		StatusLeftEarly,
	}
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	for _, v := range AllStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// AttendanceRecord is one employee's attendance for one logical day,
// unique per (user_id, attendance_date). BreakStart/BreakEnd are the
// legacy inline break columns kept for backward compatibility; normalized
// breaks live in their own table.
type AttendanceRecord struct {
	ID              string
	SessionID       string
	UserID          string
	AttendanceDate  time.Time
	TimeIn          *time.Time
	TimeOut         *time.Time
	BreakStart      *time.Time
	BreakEnd        *time.Time
	Status          Status
	MinutesLate     int
	HoursWorked     float64
	OvertimeMinutes int
	OvertimeStatus  *string
	AutoCheckout    bool
	Notes           *string
	ConfirmedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
